package services

import (
	"context"
	"sort"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DayRevenue struct {
	Date    string       `json:"date"`
	Orders  int          `json:"orders"`
	Revenue models.Money `json:"revenue"`
}

type TopProduct struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	Revenue   models.Money `json:"revenue"`
}

type DashboardStats struct {
	TotalRevenue     models.Money                 `json:"total_revenue"`
	TotalOrders      int64                        `json:"total_orders"`
	TotalCustomers   int64                        `json:"total_customers"`
	TotalProducts    int64                        `json:"total_products"`
	PendingApprovals int64                        `json:"pending_approvals"`
	PendingSellers   int64                        `json:"pending_sellers"`
	OpenTickets      int64                        `json:"open_tickets"`
	OrdersByStatus   map[models.OrderStatus]int64 `json:"orders_by_status"`
	RevenueByDay     []DayRevenue                 `json:"revenue_by_day"`
	TopProducts      []TopProduct                 `json:"top_products"`
	GeneratedAt      time.Time                    `json:"generated_at"`
}

type statusCount struct {
	Status models.OrderStatus
	Count  int64
}

// BuildDashboardStats aggregates the back-office dashboard. Revenue counts paid orders only.
func BuildDashboardStats(ctx context.Context, db *gorm.DB, days, top int, now time.Time) (*DashboardStats, error) {
	db = db.WithContext(ctx)
	stats := &DashboardStats{OrdersByStatus: map[models.OrderStatus]int64{}, GeneratedAt: now}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.TotalOrders, db.Model(&models.Order{})},
		{&stats.TotalCustomers, db.Model(&models.User{}).Where("role = ?", models.RoleCustomer)},
		{&stats.TotalProducts, db.Model(&models.Product{})},
		{&stats.PendingApprovals, db.Model(&models.Product{}).Where("approval_status = ?", models.ApprovalPending)},
		{&stats.PendingSellers, db.Model(&models.SellerProfile{}).Where("status = ?", models.SellerStatusPending)},
		{&stats.OpenTickets, db.Model(&models.SupportTicket{}).Where("status IN ?", []models.TicketStatus{models.TicketOpen, models.TicketInProgress})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	var byStatus []statusCount
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, s := range byStatus {
		stats.OrdersByStatus[s.Status] = s.Count
	}

	var paid []models.Order
	if err := db.Select("id, total, created_at").
		Where("payment_status = ?", models.PaymentStatusPaid).Find(&paid).Error; err != nil {
		return nil, err
	}
	stats.TotalRevenue = decimal.Zero
	for _, o := range paid {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
	}

	if days <= 0 {
		days = 30
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))
	stats.RevenueByDay = revenueByDay(paid, start, days)

	topProducts, err := topSellingProducts(db, top)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = topProducts
	return stats, nil
}

func revenueByDay(orders []models.Order, start time.Time, days int) []DayRevenue {
	series := make([]DayRevenue, days)
	index := map[string]int{}
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		series[i] = DayRevenue{Date: d, Revenue: decimal.Zero}
		index[d] = i
	}
	for _, o := range orders {
		if i, ok := index[o.CreatedAt.In(start.Location()).Format("2006-01-02")]; ok {
			series[i].Orders++
			series[i].Revenue = series[i].Revenue.Add(o.Total)
		}
	}
	return series
}

// topSellingProducts ranks products by quantity on orders that were not cancelled or returned.
func topSellingProducts(db *gorm.DB, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	var items []models.OrderItem
	if err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status NOT IN ?", []models.OrderStatus{models.OrderStatusCancelled, models.OrderStatusReturned}).
		Find(&items).Error; err != nil {
		return nil, err
	}

	agg := map[uint]*TopProduct{}
	for _, item := range items {
		tp, ok := agg[item.ProductID]
		if !ok {
			tp = &TopProduct{ProductID: item.ProductID, Name: item.ProductName, Revenue: decimal.Zero}
			agg[item.ProductID] = tp
		}
		tp.Quantity += item.Quantity
		tp.Revenue = tp.Revenue.Add(item.LineTotal)
	}

	out := make([]TopProduct, 0, len(agg))
	for _, tp := range agg {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type SalesReport struct {
	From         time.Time                    `json:"from"`
	To           time.Time                    `json:"to"`
	Orders       int                          `json:"orders"`
	PaidOrders   int                          `json:"paid_orders"`
	Gross        models.Money                 `json:"gross"`
	Discounts    models.Money                 `json:"discounts"`
	ShippingFees models.Money                 `json:"shipping_fees"`
	Revenue      models.Money                 `json:"revenue"`
	AverageOrder models.Money                 `json:"average_order"`
	ByPayment    map[models.PaymentMethod]int `json:"by_payment_method"`
	Days         []DayRevenue                 `json:"days"`
	OrderList    []models.Order               `json:"-"`
}

// BuildSalesReport summarizes orders created in [from, to).
func BuildSalesReport(ctx context.Context, db *gorm.DB, from, to time.Time) (*SalesReport, error) {
	var orders []models.Order
	if err := db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}

	report := &SalesReport{
		From: from, To: to,
		Gross: decimal.Zero, Discounts: decimal.Zero, ShippingFees: decimal.Zero,
		Revenue: decimal.Zero, AverageOrder: decimal.Zero,
		ByPayment: map[models.PaymentMethod]int{},
		OrderList: orders,
	}

	var paid []models.Order
	for _, o := range orders {
		report.Orders++
		report.ByPayment[o.PaymentMethod]++
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		report.Gross = report.Gross.Add(o.Subtotal)
		report.Discounts = report.Discounts.Add(o.Discount)
		report.ShippingFees = report.ShippingFees.Add(o.ShippingFee)
		if o.PaymentStatus == models.PaymentStatusPaid {
			report.PaidOrders++
			report.Revenue = report.Revenue.Add(o.Total)
			paid = append(paid, o)
		}
	}
	if report.PaidOrders > 0 {
		report.AverageOrder = report.Revenue.Div(decimal.NewFromInt(int64(report.PaidOrders))).Round(2)
	}

	days := int(to.Sub(from).Hours()/24 + 0.5)
	if days > 0 && days <= 366 {
		report.Days = revenueByDay(paid, from, days)
	}
	return report, nil
}

type SellerDashboard struct {
	ProductsByStatus map[models.ApprovalStatus]int64 `json:"products_by_status"`
	Revenue          models.Money                    `json:"revenue"`
	ItemsSold        int                             `json:"items_sold"`
	PendingOrders    int64                           `json:"pending_orders"`
	LowStock         []models.Product                `json:"low_stock"`
	UnsettledAmount  models.Money                    `json:"unsettled_amount"`
}

type approvalCount struct {
	ApprovalStatus models.ApprovalStatus
	Count          int64
}

// BuildSellerDashboard summarizes one seller's catalog and delivered sales.
func BuildSellerDashboard(ctx context.Context, db *gorm.DB, sellerID string, lowStockThreshold int) (*SellerDashboard, error) {
	db = db.WithContext(ctx)
	dash := &SellerDashboard{
		ProductsByStatus: map[models.ApprovalStatus]int64{},
		Revenue:          decimal.Zero,
		UnsettledAmount:  decimal.Zero,
	}

	var counts []approvalCount
	if err := db.Model(&models.Product{}).Select("approval_status, COUNT(*) AS count").
		Where("seller_id = ?", sellerID).Group("approval_status").Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		dash.ProductsByStatus[c.ApprovalStatus] = c.Count
	}

	var delivered []models.OrderItem
	if err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.seller_id = ? AND orders.status = ?", sellerID, models.OrderStatusDelivered).
		Find(&delivered).Error; err != nil {
		return nil, err
	}
	for _, item := range delivered {
		dash.Revenue = dash.Revenue.Add(item.LineTotal)
		dash.ItemsSold += item.Quantity
		if item.SettlementID == nil {
			dash.UnsettledAmount = dash.UnsettledAmount.Add(item.LineTotal)
		}
	}

	if err := db.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusReadyToShip}).
		Where("id IN (?)", db.Model(&models.OrderItem{}).Select("order_id").Where("seller_id = ?", sellerID)).
		Count(&dash.PendingOrders).Error; err != nil {
		return nil, err
	}

	low, err := LowStockProducts(db, lowStockThreshold, sellerID)
	if err != nil {
		return nil, err
	}
	dash.LowStock = low
	return dash, nil
}
