package productcontroller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

const importColumns = 11

type ImportResult struct {
	Created int      `json:"created_count"`
	Updated int      `json:"updated_count"`
	Skipped int      `json:"skipped_count"`
	Errors  []string `json:"errors,omitempty"`
}

type importRow struct {
	id          uint
	name        string
	sku         string
	description string
	price       models.Money
	salePrice   models.Money
	cost        models.Money
	stock       int
	image       string
	categoryIDs []uint
	brandID     *uint
}

func parseImportRow(row *xlsx.Row) (*importRow, error) {
	get := func(i int) string {
		if i < len(row.Cells) {
			return strings.TrimSpace(row.Cells[i].String())
		}
		return ""
	}
	money := func(i int) (models.Money, error) {
		if get(i) == "" {
			return models.NewMoney(0), nil
		}
		return models.ParseMoney(get(i))
	}

	r := &importRow{
		name:        get(1),
		sku:         strings.ToUpper(get(2)),
		description: get(3),
		image:       get(8),
	}
	if r.name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if v := get(0); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q", v)
		}
		r.id = uint(id)
	}

	var err error
	if r.price, err = models.ParseMoney(get(4)); err != nil || !r.price.IsPositive() {
		return nil, fmt.Errorf("invalid price %q", get(4))
	}
	if r.salePrice, err = money(5); err != nil {
		return nil, fmt.Errorf("invalid sale price %q", get(5))
	}
	if r.cost, err = money(6); err != nil {
		return nil, fmt.Errorf("invalid cost %q", get(6))
	}
	if v := get(7); v != "" {
		if r.stock, err = strconv.Atoi(v); err != nil || r.stock < 0 {
			return nil, fmt.Errorf("invalid stock %q", v)
		}
	}
	ids, ok := parseIDList(get(9))
	if !ok {
		return nil, fmt.Errorf("invalid category IDs %q", get(9))
	}
	r.categoryIDs = ids
	if v := get(10); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid brand ID %q", v)
		}
		b := uint(id)
		r.brandID = &b
	}
	return r, nil
}

// ImportProducts upserts one product per data row of the first sheet.
// Rows with an ID update that product; other rows create a published house product.
func ImportProducts(db *gorm.DB, sheet *xlsx.Sheet, actor string) ImportResult {
	var result ImportResult
	for i := 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if row == nil || len(row.Cells) == 0 {
			continue
		}
		parsed, err := parseImportRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		created := false
		err = db.Transaction(func(tx *gorm.DB) error {
			var product models.Product
			if parsed.id != 0 {
				if err := tx.First(&product, parsed.id).Error; err != nil {
					return err
				}
			} else {
				created = true
				product = models.Product{
					Slug:           utils.UniqueSlug(parsed.name),
					ApprovalStatus: models.ApprovalApproved,
					IsActive:       true,
				}
			}

			product.Name = parsed.name
			product.Description = parsed.description
			product.Price = parsed.price
			product.SalePrice = parsed.salePrice
			product.CostPrice = parsed.cost
			product.BrandID = parsed.brandID
			if parsed.image != "" {
				product.Image = parsed.image
			}
			if parsed.sku != "" {
				product.SKU = parsed.sku
			} else if product.SKU == "" {
				product.SKU = "JH-" + strings.ToUpper(uuid.NewString()[:8])
			}

			delta := parsed.stock - product.Stock
			if created {
				if err := tx.Create(&product).Error; err != nil {
					return err
				}
			} else if err := tx.Omit("Stock").Save(&product).Error; err != nil {
				return err
			}

			categories, err := loadCategories(tx, parsed.categoryIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
				return err
			}

			if delta != 0 {
				_, err := services.AdjustStock(tx, services.StockChange{
					ProductID: product.ID,
					Delta:     delta,
					Type:      models.MovementAdjust,
					Reason:    "excel import",
					Actor:     actor,
				})
				return err
			}
			return nil
		})
		switch {
		case err != nil:
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}
	return result
}

// POST /api/admin/products/import
func ImportProductsFromExcel(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Excel file is required")
			return
		}

		file, err := header.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to open Excel file")
			return
		}
		defer file.Close()

		workbook, err := xlsx.OpenReaderAt(file, header.Size)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Failed to parse Excel file")
			return
		}
		if len(workbook.Sheets) == 0 || len(workbook.Sheets[0].Rows) < 2 {
			response.Error(c, http.StatusBadRequest, "Excel file is empty or missing header row")
			return
		}
		if len(workbook.Sheets[0].Rows[0].Cells) < importColumns {
			response.Error(c, http.StatusBadRequest, fmt.Sprintf("Header row must have %d columns", importColumns))
			return
		}

		result := ImportProducts(db, workbook.Sheets[0], currentUser(c))
		invalidateCatalog(c, store)
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": result.Created,
			"updated_count": result.Updated,
			"skipped_count": result.Skipped,
			"errors":        result.Errors,
		})
	}
}
