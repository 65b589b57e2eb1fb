package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/igestaos-eng/barbearia/internal/audit"
	"github.com/igestaos-eng/barbearia/internal/cache"
	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
)

func newReschedule(repo *fakeRepo) *RescheduleAppointment {
	return NewRescheduleAppointment(repo, audit.NewDispatcher(nil), cache.NewNoop())
}

func TestRescheduleAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("move para horário livre", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		newStart := testClock(t).Add(2 * time.Hour)

		ap, err := newReschedule(repo).Execute(ctx, RescheduleAppointmentInput{
			AppointmentID:  id,
			NewScheduledAt: newStart,
		})
		if err != nil {
			t.Fatalf("reschedule: %v", err)
		}
		if !ap.ScheduledAt.Equal(newStart) {
			t.Fatalf("horário não mudou: %v", ap.ScheduledAt)
		}
		if ap.DurationMinutes != 30 {
			t.Fatalf("duração deveria ser mantida, veio %d", ap.DurationMinutes)
		}
	})

	t.Run("não conflita consigo mesmo", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		// avança 10min: o novo intervalo cruza o horário atual do
		// próprio agendamento, que deve ser ignorado na checagem
		newStart := testClock(t).Add(10 * time.Minute)

		if _, err := newReschedule(repo).Execute(ctx, RescheduleAppointmentInput{
			AppointmentID:  id,
			NewScheduledAt: newStart,
		}); err != nil {
			t.Fatalf("deslocamento parcial deveria passar, veio: %v", err)
		}
	})

	t.Run("conflito com outro agendamento é rejeitado", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		start := testClock(t)

		other, err := newBook(repo).Execute(ctx, BookAppointmentInput{
			CustomerID:  2,
			BarberID:    1,
			ServiceID:   1,
			ScheduledAt: start.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("segunda reserva: %v", err)
		}

		_, err = newReschedule(repo).Execute(ctx, RescheduleAppointmentInput{
			AppointmentID:  id,
			NewScheduledAt: start.Add(time.Hour + 15*time.Minute),
		})

		var conflict *domain.ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("esperava ConflictError, veio: %v", err)
		}
		if conflict.ConflictingID != other.ID {
			t.Fatalf("esperava conflito com %d, veio %d", other.ID, conflict.ConflictingID)
		}

		// o horário original permanece intacto
		ap, _ := repo.GetAppointment(ctx, id, false)
		if !ap.ScheduledAt.Equal(start) {
			t.Fatalf("horário não deveria ter mudado: %v", ap.ScheduledAt)
		}
	})

	t.Run("só pending e confirmed podem reagendar", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		uc := newTransition(repo)

		for _, target := range []domain.Status{domain.StatusConfirmed, domain.StatusInProgress} {
			if _, err := uc.Execute(ctx, id, target, "", nil); err != nil {
				t.Fatalf("transição para %s: %v", target, err)
			}
		}

		_, err := newReschedule(repo).Execute(ctx, RescheduleAppointmentInput{
			AppointmentID:  id,
			NewScheduledAt: testClock(t).Add(3 * time.Hour),
		})

		var invalid *domain.InvalidStateError
		if !errors.As(err, &invalid) {
			t.Fatalf("esperava InvalidStateError, veio: %v", err)
		}
		if invalid.Status != domain.StatusInProgress {
			t.Fatalf("estado errado no erro: %s", invalid.Status)
		}
	})

	t.Run("timeout do store sobe sem retry e sem mexer no horário", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		start := testClock(t)

		repo.findConflictErr = domain.ErrStorageTimeout
		checksBefore := repo.conflictChecks

		_, err := newReschedule(repo).Execute(ctx, RescheduleAppointmentInput{
			AppointmentID:  id,
			NewScheduledAt: start.Add(2 * time.Hour),
		})
		if !errors.Is(err, domain.ErrStorageTimeout) {
			t.Fatalf("esperava ErrStorageTimeout, veio: %v", err)
		}
		if repo.conflictChecks != checksBefore+1 {
			t.Fatalf("esperava 1 checagem de conflito, vieram %d", repo.conflictChecks-checksBefore)
		}

		ap, _ := repo.GetAppointment(ctx, id, false)
		if !ap.ScheduledAt.Equal(start) {
			t.Fatalf("horário não deveria ter mudado: %v", ap.ScheduledAt)
		}
	})

	t.Run("nova duração explícita é aplicada", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		ap, err := newReschedule(repo).Execute(ctx, RescheduleAppointmentInput{
			AppointmentID:      id,
			NewScheduledAt:     testClock(t).Add(4 * time.Hour),
			NewDurationMinutes: 45,
		})
		if err != nil {
			t.Fatalf("reschedule: %v", err)
		}
		if ap.DurationMinutes != 45 {
			t.Fatalf("duração esperada 45, veio %d", ap.DurationMinutes)
		}
	})
}
