package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string     `gorm:"primaryKey;size:64" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Picture      string     `json:"picture"`
	Provider     string     `gorm:"size:20" json:"provider"` // local, google
	Role         Role       `gorm:"type:varchar(20);not null" json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	Addresses    []Address  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsStaffOrAdmin reports whether the user may act on the back office.
func (u *User) IsStaffOrAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}

// GuestUser is an anonymous shopper identified only by a short-lived token.
type GuestUser struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

type Permission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Description string `json:"description"`
}

type UserPermission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       string     `gorm:"uniqueIndex:idx_user_permission;size:64;not null" json:"user_id"`
	PermissionID uint       `gorm:"uniqueIndex:idx_user_permission;not null" json:"permission_id"`
	Permission   Permission `json:"permission"`
	GrantedBy    string     `json:"granted_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Permission codes
const (
	PermProductsManage    = "products.manage"
	PermOrdersManage      = "orders.manage"
	PermUsersManage       = "users.manage"
	PermMarketingManage   = "marketing.manage"
	PermSupportManage     = "support.manage"
	PermReportsView       = "reports.view"
	PermSettlementsManage = "settlements.manage"
	PermInventoryManage   = "inventory.manage"
)

// DefaultPermissions is the seeded permission catalog.
var DefaultPermissions = []Permission{
	{Code: PermProductsManage, Description: "Create, edit and approve products"},
	{Code: PermOrdersManage, Description: "Manage orders and payments"},
	{Code: PermUsersManage, Description: "Manage users, sellers and permissions"},
	{Code: PermMarketingManage, Description: "Manage coupons, banners and payment QR codes"},
	{Code: PermSupportManage, Description: "Handle support tickets"},
	{Code: PermReportsView, Description: "View dashboards and reports"},
	{Code: PermSettlementsManage, Description: "Generate and pay seller settlements"},
	{Code: PermInventoryManage, Description: "Adjust stock and view movements"},
}
