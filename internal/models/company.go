package models

import "time"

type Company struct {
	ID               uint   `gorm:"primaryKey"`
	UUID             string `gorm:"size:36;uniqueIndex;not null"`
	Name             string `gorm:"size:100;not null;unique"`
	BusinessCategory string `gorm:"size:50;not null"`
	Email            string `gorm:"size:100"`
	Phone            string `gorm:"size:50"` // Telefone de contato (opcional)
	CreatedBy        uint   `gorm:"not null"` // usuário que criou a empresa
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Branches []Branch
	Users    []User
}

type Branch struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	Company   Company
	Name      string `gorm:"size:100;not null"`
	Code      string `gorm:"size:20;index"` // código curto usado nos relatórios
	Address   string `gorm:"size:255"`
	IsMain    bool   `gorm:"not null;default:false"` // matriz
	CreatedAt time.Time
	UpdatedAt time.Time
}
