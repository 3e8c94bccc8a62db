package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodVNPay        PaymentMethod = "vnpay"
	PaymentMethodMoMo         PaymentMethod = "momo"
	PaymentMethodStripe       PaymentMethod = "stripe"
)

// Online reports whether the method redirects the shopper to a gateway.
func (m PaymentMethod) Online() bool {
	return m == PaymentMethodVNPay || m == PaymentMethodMoMo || m == PaymentMethodStripe
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBankTransfer, PaymentMethodVNPay, PaymentMethodMoMo, PaymentMethodStripe:
		return true
	}
	return false
}

// Payment tracks the money side of one order.
type Payment struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	OrderID      uint                 `gorm:"uniqueIndex;not null" json:"order_id"`
	Order        *Order               `json:"order,omitempty"`
	Provider     PaymentMethod        `gorm:"type:varchar(20);not null" json:"provider"`
	Amount       Money                `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency     string               `gorm:"size:3" json:"currency"`
	Status       PaymentStatus        `gorm:"type:varchar(20);not null;index" json:"status"`
	ProviderRef  string               `gorm:"index" json:"provider_ref,omitempty"`
	RedirectURL  string               `json:"redirect_url,omitempty"`
	PaidAt       *time.Time           `json:"paid_at,omitempty"`
	Transactions []PaymentTransaction `gorm:"constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// PaymentTransaction records every gateway exchange for auditing.
type PaymentTransaction struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	PaymentID     uint          `gorm:"index;not null" json:"payment_id"`
	Provider      PaymentMethod `gorm:"type:varchar(20)" json:"provider"`
	Kind          string        `gorm:"size:20" json:"kind"` // create, callback, refund
	ProviderTxnID string        `gorm:"index" json:"provider_txn_id"`
	ResultCode    string        `json:"result_code"`
	Success       bool          `json:"success"`
	Amount        Money         `gorm:"type:numeric(14,2)" json:"amount"`
	RawPayload    string        `gorm:"type:text" json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
}
