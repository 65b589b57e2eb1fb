package appointment

import (
	"strings"
	"time"

	"github.com/igestaos-eng/barbearia/internal/models"
)

// ===============================
// Domain Actions
// ===============================
//
// Mutam o model somente depois de validar a transição.
// Efeitos colaterais (completed_at, cancellation_reason) vivem aqui,
// num ponto único, nunca espalhados pelos handlers.

// Transition aplica uma mudança de status arbitrária com os efeitos da tabela
func Transition(ap *models.Appointment, target Status, reason string, now time.Time) error {
	if err := CanTransition(Status(ap.Status), target); err != nil {
		return err
	}

	if target == StatusCancelled && strings.TrimSpace(reason) == "" {
		return ErrMissingReason
	}

	ap.Status = string(target)

	switch target {
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancellationReason = reason
	}

	return nil
}

func Confirm(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusConfirmed, "", now)
}

func Start(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusInProgress, "", now)
}

func Complete(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCompleted, "", now)
}

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	return Transition(ap, StatusCancelled, reason, now)
}

func NoShow(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusNoShow, "", now)
}

// CanReschedule: só pending/confirmed podem mudar de horário
func CanReschedule(current Status) error {
	if current == StatusPending || current == StatusConfirmed {
		return nil
	}
	return &InvalidStateError{Status: current}
}

// MarkReminderSent é idempotente: só grava na primeira chamada
func MarkReminderSent(ap *models.Appointment, now time.Time) bool {
	if ap.ReminderSent {
		return false
	}
	ap.ReminderSent = true
	ap.ReminderSentAt = &now
	return true
}

// Archive / Restore não são transições de status
func Archive(ap *models.Appointment, now time.Time) {
	if ap.Archived {
		return
	}
	ap.Archived = true
	ap.ArchivedAt = &now
}

func Restore(ap *models.Appointment) {
	ap.Archived = false
	ap.ArchivedAt = nil
}
