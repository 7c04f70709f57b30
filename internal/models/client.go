package models

import "time"

type Client struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	BranchID  uint `gorm:"index;not null"`
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:100"`
	Phone     string `gorm:"size:50"`
	Document  string `gorm:"size:20"` // CPF/CNPJ
	Notes     string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
