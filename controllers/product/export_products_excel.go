package productcontroller

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// productColumns is shared by export and import; import reads the first eleven.
var productColumns = []string{
	"ID", "Name", "SKU", "Description", "Price", "SalePrice", "Cost",
	"Stock", "Image", "CategoryIDs", "BrandID",
	"ApprovalStatus", "SellerID", "CreatedAt", "UpdatedAt",
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteProductsWorkbook writes every non-deleted product as one sheet to w.
func WriteProductsWorkbook(db *gorm.DB, w io.Writer) error {
	var products []models.Product
	if err := db.Preload("Categories").Order("id ASC").Find(&products).Error; err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range productColumns {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.SKU)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.Price.StringFixed(2))
		row.AddCell().SetString(p.SalePrice.StringFixed(2))
		row.AddCell().SetString(p.CostPrice.StringFixed(2))
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(p.Image)

		catIDs := make([]string, 0, len(p.Categories))
		for _, cat := range p.Categories {
			catIDs = append(catIDs, strconv.FormatUint(uint64(cat.ID), 10))
		}
		row.AddCell().SetString(strings.Join(catIDs, ","))

		brand := ""
		if p.BrandID != nil {
			brand = strconv.FormatUint(uint64(*p.BrandID), 10)
		}
		row.AddCell().SetString(brand)
		row.AddCell().SetString(string(p.ApprovalStatus))
		seller := ""
		if p.SellerID != nil {
			seller = *p.SellerID
		}
		row.AddCell().SetString(seller)
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}

// GET /api/admin/products/export
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", xlsxContentType)
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := WriteProductsWorkbook(db, c.Writer); err != nil {
			c.Header("Content-Disposition", "")
			response.Error(c, http.StatusInternalServerError, "Failed to export products")
			return
		}
	}
}
