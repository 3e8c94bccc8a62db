package adminController

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

const (
	dashboardTTL    = 5 * time.Minute
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func intQuery(c *gin.Context, name string, def, max int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// GET /api/admin/dashboard/stats?days=30&top=10
func GetDashboardStats(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := intQuery(c, "days", 30, 365)
		top := intQuery(c, "top", 10, 50)
		key := fmt.Sprintf("%sstats:%d:%d", cache.PrefixDashboard, days, top)

		var stats services.DashboardStats
		err := cache.Remember(c.Request.Context(), store, key, dashboardTTL, &stats, func() (interface{}, error) {
			return services.BuildDashboardStats(c.Request.Context(), db, days, top, time.Now())
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
	}
}

// GET /api/admin/reports/sales?from=YYYY-MM-DD&to=YYYY-MM-DD
func GetSalesReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := queryRange(c, time.Now())
		if !ok {
			return
		}
		report, err := services.BuildSalesReport(c.Request.Context(), db, from, to)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
	}
}

// WriteSalesWorkbook writes a summary sheet and one row per order.
func WriteSalesWorkbook(report *services.SalesReport, w io.Writer) error {
	file := xlsx.NewFile()
	summary, err := file.AddSheet("Summary")
	if err != nil {
		return err
	}
	for _, kv := range [][2]string{
		{"From", report.From.Format(dateLayout)},
		{"To", report.To.AddDate(0, 0, -1).Format(dateLayout)},
		{"Orders", strconv.Itoa(report.Orders)},
		{"Paid orders", strconv.Itoa(report.PaidOrders)},
		{"Gross", report.Gross.StringFixed(2)},
		{"Discounts", report.Discounts.StringFixed(2)},
		{"Shipping fees", report.ShippingFees.StringFixed(2)},
		{"Revenue", report.Revenue.StringFixed(2)},
		{"Average order", report.AverageOrder.StringFixed(2)},
	} {
		row := summary.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}

	orders, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}
	header := orders.AddRow()
	for _, h := range []string{"OrderNumber", "CreatedAt", "Status", "PaymentStatus", "PaymentMethod", "Subtotal", "Discount", "ShippingFee", "Total"} {
		header.AddCell().SetString(h)
	}
	for _, o := range report.OrderList {
		row := orders.AddRow()
		row.AddCell().SetString(o.OrderNumber)
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(string(o.PaymentStatus))
		row.AddCell().SetString(string(o.PaymentMethod))
		row.AddCell().SetString(o.Subtotal.StringFixed(2))
		row.AddCell().SetString(o.Discount.StringFixed(2))
		row.AddCell().SetString(o.ShippingFee.StringFixed(2))
		row.AddCell().SetString(o.Total.StringFixed(2))
	}
	return file.Write(w)
}

// GET /api/admin/reports/sales/export
func ExportSalesReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := queryRange(c, time.Now())
		if !ok {
			return
		}
		report, err := services.BuildSalesReport(c.Request.Context(), db, from, to)
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		name := fmt.Sprintf("sales_%s_%s.xlsx", from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102"))
		c.Header("Content-Disposition", "attachment; filename="+name)
		c.Header("Content-Type", xlsxContentType)
		if err := WriteSalesWorkbook(report, c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}
