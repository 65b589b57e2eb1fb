package appointment

import (
	"context"
	"time"

	"github.com/igestaos-eng/barbearia/internal/audit"
	"github.com/igestaos-eng/barbearia/internal/cache"
	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/httperr"
	"github.com/igestaos-eng/barbearia/internal/models"
)

type RescheduleAppointmentInput struct {
	AppointmentID  uint
	NewScheduledAt time.Time

	// Zero = mantém a duração atual
	NewDurationMinutes int
}

type RescheduleAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache cache.Cache
}

func NewRescheduleAppointment(
	repo domain.Repository,
	auditDisp *audit.Dispatcher,
	c cache.Cache,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		audit: auditDisp,
		cache: c,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	var ap *models.Appointment
	var oldDay time.Time

	// Mesma fronteira atômica do Book: checagem com lock + escrita,
	// excluindo o próprio agendamento do conjunto de conflito
	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointment(ctx, in.AppointmentID, false)
		if err != nil {
			return err
		}

		if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
			return err
		}

		duration := in.NewDurationMinutes
		if duration == 0 {
			duration = ap.DurationMinutes
		}
		if duration <= 0 {
			return httperr.ErrBusiness("invalid_duration")
		}

		interval := domain.NewInterval(in.NewScheduledAt, duration)

		conflict, err := tx.FindConflict(ctx, ap.BarberID, interval, ap.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &domain.ConflictError{ConflictingID: conflict.ID}
		}

		oldDay = ap.ScheduledAt
		ap.ScheduledAt = in.NewScheduledAt
		ap.DurationMinutes = duration

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	_ = uc.cache.Delete(ctx, cache.AvailabilityKey(ap.BarberID, oldDay))
	_ = uc.cache.Delete(ctx, cache.AvailabilityKey(ap.BarberID, ap.ScheduledAt))

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
