package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/igestaos-eng/barbearia/internal/models"
)

type AppointmentListDTO struct {
	ID              uint      `json:"id"`
	PublicRef       uuid.UUID `json:"public_ref"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Price           float64   `json:"price"`
	CustomerName    string    `json:"customer_name"`
	ServiceName     string    `json:"service_name"`
	Archived        bool      `json:"archived"`
}

func NewAppointmentListDTO(ap *models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:              ap.ID,
		PublicRef:       ap.PublicRef,
		ScheduledAt:     ap.ScheduledAt,
		EndTime:         ap.EndTime(),
		DurationMinutes: ap.DurationMinutes,
		Status:          ap.Status,
		Price:           ap.Price,
		CustomerName:    ap.Customer.Name,
		ServiceName:     ap.Service.Name,
		Archived:        ap.Archived,
	}
}
