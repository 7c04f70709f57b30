package models

import "time"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "dinheiro"
	PaymentCard PaymentMethod = "cartao"
	PaymentPix  PaymentMethod = "pix"
)

type Sale struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	BranchID  uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	ClientID  *uint `gorm:"index"` // venda balcão pode não ter cliente
	Client    *Client
	SellerID  uint `gorm:"index;not null"`
	Seller    User
	Quantity      int           `gorm:"not null"`
	UnitPrice     float64       `gorm:"not null"`
	Total         float64       `gorm:"not null"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null"` // dinheiro / cartao / pix
	SaleDate      time.Time     `gorm:"index;not null"`   // dia da venda
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
