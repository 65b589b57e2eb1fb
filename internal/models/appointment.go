package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Referência pública usada pela API sem autenticação
	PublicRef uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"public_ref"`

	CustomerID uint     `gorm:"index:idx_appointments_customer_time" json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"customer"`

	BarberID uint   `gorm:"index:idx_appointments_barber_time" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barber"`

	ServiceID uint    `gorm:"index" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`

	ScheduledAt     time.Time `gorm:"index:idx_appointments_barber_time;index:idx_appointments_customer_time" json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`

	Status string `gorm:"size:20;index;default:'pending'" json:"status"`

	Price float64 `json:"price"`

	Notes              string `gorm:"type:text" json:"notes"`
	CancellationReason string `gorm:"type:text" json:"cancellation_reason"`

	CompletedAt *time.Time `json:"completed_at"`

	ReminderSent   bool       `gorm:"default:false" json:"reminder_sent"`
	ReminderSentAt *time.Time `json:"reminder_sent_at"`

	// Soft delete explícito: sai das listagens e do conflito, mas fica no histórico
	Archived   bool       `gorm:"default:false;index" json:"archived"`
	ArchivedAt *time.Time `json:"archived_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EndTime devolve o fim do intervalo meio-aberto [ScheduledAt, ScheduledAt+Duration)
func (a *Appointment) EndTime() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
