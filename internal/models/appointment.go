package models

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "agendado"
	AppointmentDone      AppointmentStatus = "concluido"
	AppointmentCanceled  AppointmentStatus = "cancelado"
)

type Appointment struct {
	ID        uint `gorm:"primaryKey"`
	CompanyID uint `gorm:"index;not null"`
	BranchID  uint `gorm:"index;not null"`
	ClientID  *uint `gorm:"index"`
	Client    *Client
	Title     string            `gorm:"size:100;not null"`
	Service   string            `gorm:"size:100"`
	StartsAt  time.Time         `gorm:"index;not null"`
	EndsAt    time.Time         `gorm:"not null"`
	Status    AppointmentStatus `gorm:"size:20;not null;default:agendado"`
	Notes     string            `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
