package models

import "time"

type EntryKind string

const (
	EntryIncome  EntryKind = "entrada"
	EntryExpense EntryKind = "saida"
)

type EntryStatus string

const (
	EntryPaid    EntryStatus = "pago"
	EntryPending EntryStatus = "pendente"
)

type FinancialEntry struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	BranchID  uint `gorm:"index;not null"`
	Kind        EntryKind   `gorm:"size:10;not null"` // entrada / saida
	Amount      float64     `gorm:"not null"`
	Description string      `gorm:"size:255"`
	Category    string      `gorm:"size:50;index"` // aluguel, fornecedor, salario...
	Status      EntryStatus `gorm:"size:10;not null;default:pendente"`
	DueDate     time.Time   `gorm:"index;not null"`
	PaidAt      *time.Time
	CreatedBy   uint `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
