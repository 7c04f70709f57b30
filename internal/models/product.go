package models

import "time"

type Product struct {
	ID          uint `gorm:"primaryKey"`
	CompanyID   uint `gorm:"index;not null"`
	BranchID    uint `gorm:"index;not null"`
	Name        string  `gorm:"size:100;not null"`
	Description string  `gorm:"size:255"`
	Price       float64 `gorm:"not null"`
	Stock       int     `gorm:"not null;default:0"`
	MinStock    int     `gorm:"not null;default:0"` // alerta de estoque baixo
	Barcode     string  `gorm:"size:50;index"`
	Active      bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
