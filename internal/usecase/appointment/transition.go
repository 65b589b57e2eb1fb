package appointment

import (
	"context"

	"github.com/igestaos-eng/barbearia/internal/audit"
	"github.com/igestaos-eng/barbearia/internal/cache"
	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/models"
	"github.com/igestaos-eng/barbearia/internal/timezone"
)

// TransitionAppointment é o ponto único de mudança de status:
// confirm, start, complete, cancel e no-show passam todos por aqui
type TransitionAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache cache.Cache
	tz    string
}

func NewTransitionAppointment(
	repo domain.Repository,
	auditDisp *audit.Dispatcher,
	c cache.Cache,
	tz string,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:  repo,
		audit: auditDisp,
		cache: c,
		tz:    tz,
	}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	target domain.Status,
	reason string,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID, false)
	if err != nil {
		return nil, err
	}

	wasActive := domain.IsActive(domain.Status(ap.Status))

	now := timezone.NowIn(uc.tz)
	if err := domain.Transition(ap, target, reason, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// cancelled/no_show liberam o horário: o dia volta a ter o slot
	if wasActive && !domain.IsActive(target) {
		_ = uc.cache.Delete(ctx, cache.AvailabilityKey(ap.BarberID, ap.ScheduledAt))
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "appointment_" + string(target),
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
