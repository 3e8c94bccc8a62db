package models

import "time"

// Address is an entry in a user's address book.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index;size:64;not null" json:"user_id"`
	FullName   string    `gorm:"not null" json:"full_name"`
	Phone      string    `gorm:"not null" json:"phone"`
	Line1      string    `gorm:"not null" json:"line1"`
	Ward       string    `json:"ward"`
	District   string    `json:"district"`
	Province   string    `json:"province"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot copies the address into an immutable order/checkout value.
func (a Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Ward:       a.Ward,
		District:   a.District,
		Province:   a.Province,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// AddressSnapshot is embedded in checkout sessions and orders.
type AddressSnapshot struct {
	FullName   string `json:"full_name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Ward       string `json:"ward"`
	District   string `json:"district"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Complete reports whether the snapshot has enough to ship to.
func (a AddressSnapshot) Complete() bool {
	return a.FullName != "" && a.Phone != "" && a.Line1 != ""
}

type Province struct {
	Code string `gorm:"primaryKey;size:10" json:"code"`
	Name string `gorm:"not null" json:"name"`
}

type District struct {
	Code         string `gorm:"primaryKey;size:10" json:"code"`
	ProvinceCode string `gorm:"index;size:10;not null" json:"province_code"`
	Name         string `gorm:"not null" json:"name"`
}

type Ward struct {
	Code         string `gorm:"primaryKey;size:10" json:"code"`
	DistrictCode string `gorm:"index;size:10;not null" json:"district_code"`
	Name         string `gorm:"not null" json:"name"`
}
