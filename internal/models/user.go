package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	UUID      string `gorm:"size:36;uniqueIndex;not null"` // identificador público (API)
	CompanyID *uint
	Company   *Company
	BranchID  *uint
	Branch    *Branch
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:100;uniqueIndex;not null"`
	// Sempre bcrypt, nunca senha em texto puro
	PasswordHash     string   `gorm:"size:255;not null"`
	Role             UserRole `gorm:"size:20;not null"`
	BusinessCategory string   `gorm:"size:50"` // pet, farmacia, alimenticio, estetica...
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
