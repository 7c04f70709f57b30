package models

import "time"

type TransferStatus string

const (
	TransferPending  TransferStatus = "pendente"
	TransferDone     TransferStatus = "concluida"
	TransferCanceled TransferStatus = "cancelada"
)

// Transfer move estoque entre duas filiais da mesma empresa.
// O estoque só é ajustado na conclusão, dentro de uma transação.
type Transfer struct {
	ID           uint `gorm:"primaryKey"`
	CompanyID    uint `gorm:"index;not null"`
	ProductID    uint `gorm:"index;not null"`
	Product      Product
	FromBranchID uint `gorm:"index;not null"`
	ToBranchID   uint `gorm:"index;not null"`
	Quantity     int            `gorm:"not null"`
	Status       TransferStatus `gorm:"size:20;not null;default:pendente"`
	RequestedBy  uint           `gorm:"not null"`
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
