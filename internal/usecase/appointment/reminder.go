package appointment

import (
	"context"
	"time"

	"github.com/igestaos-eng/barbearia/internal/audit"
	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/models"
	"github.com/igestaos-eng/barbearia/internal/timezone"
)

// ======================================================
// MARK REMINDER SENT
// ======================================================

type MarkReminderSent struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewMarkReminderSent(
	repo domain.Repository,
	auditDisp *audit.Dispatcher,
	tz string,
) *MarkReminderSent {
	return &MarkReminderSent{
		repo:  repo,
		audit: auditDisp,
		tz:    tz,
	}
}

// Execute é idempotente: a segunda chamada devolve o agendamento
// intocado, com o reminder_sent_at original
func (uc *MarkReminderSent) Execute(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID, false)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.tz)
	if !domain.MarkReminderSent(ap, now) {
		return ap, nil
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_reminder_sent",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

// ======================================================
// LIST DUE REMINDERS
// ======================================================
//
// Decide *quando* um lembrete deve disparar; o envio em si
// (e-mail, SMS) fica fora deste serviço.

type ListDueReminders struct {
	repo domain.Repository
	tz   string

	// Janela de antecedência do lembrete
	lead time.Duration
}

func NewListDueReminders(
	repo domain.Repository,
	tz string,
	lead time.Duration,
) *ListDueReminders {
	return &ListDueReminders{
		repo: repo,
		tz:   tz,
		lead: lead,
	}
}

func (uc *ListDueReminders) Execute(
	ctx context.Context,
) ([]models.Appointment, error) {

	now := timezone.NowIn(uc.tz)
	return uc.repo.ListDueReminders(ctx, now, now.Add(uc.lead))
}
