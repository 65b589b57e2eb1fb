package appointment

import (
	"context"

	"github.com/igestaos-eng/barbearia/internal/audit"
	"github.com/igestaos-eng/barbearia/internal/cache"
	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/models"
	"github.com/igestaos-eng/barbearia/internal/timezone"
)

// ArchiveAppointment esconde o agendamento das consultas ativas e do
// conflito de horário sem mexer no status (override administrativo)
type ArchiveAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache cache.Cache
	tz    string
}

func NewArchiveAppointment(
	repo domain.Repository,
	auditDisp *audit.Dispatcher,
	c cache.Cache,
	tz string,
) *ArchiveAppointment {
	return &ArchiveAppointment{
		repo:  repo,
		audit: auditDisp,
		cache: c,
		tz:    tz,
	}
}

func (uc *ArchiveAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID, true)
	if err != nil {
		return nil, err
	}

	domain.Archive(ap, timezone.NowIn(uc.tz))

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// Arquivar libera o horário para novas reservas
	_ = uc.cache.Delete(ctx, cache.AvailabilityKey(ap.BarberID, ap.ScheduledAt))

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "appointment_archived",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

type RestoreAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache cache.Cache
}

func NewRestoreAppointment(
	repo domain.Repository,
	auditDisp *audit.Dispatcher,
	c cache.Cache,
) *RestoreAppointment {
	return &RestoreAppointment{
		repo:  repo,
		audit: auditDisp,
		cache: c,
	}
}

func (uc *RestoreAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID, true)
	if err != nil {
		return nil, err
	}

	domain.Restore(ap)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	_ = uc.cache.Delete(ctx, cache.AvailabilityKey(ap.BarberID, ap.ScheduledAt))

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "appointment_restored",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
