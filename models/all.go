package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&GuestUser{},
		&Permission{},
		&UserPermission{},
		&Address{},
		&Province{},
		&District{},
		&Ward{},
		&SellerProfile{},
		&Category{},
		&Brand{},
		&Product{},
		&ProductImage{},
		&ProductVariant{},
		&ProductReview{},
		&WishlistItem{},
		&InventoryMovement{},
		&Cart{},
		&CartItem{},
		&Coupon{},
		&CouponUsage{},
		&ShippingMethod{},
		&CheckoutSession{},
		&CheckoutSessionItem{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&SellerSettlement{},
		&Payment{},
		&PaymentTransaction{},
		&Banner{},
		&PaymentQR{},
		&SupportTicket{},
		&TicketReply{},
	}
}
