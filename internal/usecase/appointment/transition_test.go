package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/igestaos-eng/barbearia/internal/audit"
	"github.com/igestaos-eng/barbearia/internal/cache"
	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
)

func newTransition(repo *fakeRepo) *TransitionAppointment {
	return NewTransitionAppointment(repo, audit.NewDispatcher(nil), cache.NewNoop(), testTZ)
}

// seedAppointment grava um agendamento pending direto no fake
func seedAppointment(t *testing.T, repo *fakeRepo) uint {
	t.Helper()
	seedService(repo)

	ap, err := newBook(repo).Execute(context.Background(), BookAppointmentInput{
		CustomerID:  1,
		BarberID:    1,
		ServiceID:   1,
		ScheduledAt: testClock(t),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return ap.ID
}

func TestTransitionAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("fluxo feliz pending ate completed", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		uc := newTransition(repo)

		steps := []domain.Status{
			domain.StatusConfirmed,
			domain.StatusInProgress,
			domain.StatusCompleted,
		}
		for _, target := range steps {
			if _, err := uc.Execute(ctx, id, target, "", nil); err != nil {
				t.Fatalf("transição para %s: %v", target, err)
			}
		}

		ap, err := repo.GetAppointment(ctx, id, false)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if ap.Status != string(domain.StatusCompleted) {
			t.Fatalf("status esperado completed, veio %s", ap.Status)
		}
		if ap.CompletedAt == nil {
			t.Fatalf("esperava completed_at gravado")
		}
	})

	t.Run("pular etapa é transição inválida", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		// pending -> in_progress sem confirmar antes
		_, err := newTransition(repo).Execute(ctx, id, domain.StatusInProgress, "", nil)

		var invalid *domain.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("esperava InvalidTransitionError, veio: %v", err)
		}
		if invalid.From != domain.StatusPending || invalid.To != domain.StatusInProgress {
			t.Fatalf("erro com par errado: %s -> %s", invalid.From, invalid.To)
		}

		ap, _ := repo.GetAppointment(ctx, id, false)
		if ap.Status != string(domain.StatusPending) {
			t.Fatalf("status não deveria ter mudado, veio %s", ap.Status)
		}
	})

	t.Run("cancelar sem motivo é rejeitado", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		_, err := newTransition(repo).Execute(ctx, id, domain.StatusCancelled, "   ", nil)
		if !errors.Is(err, domain.ErrMissingReason) {
			t.Fatalf("esperava ErrMissingReason, veio: %v", err)
		}
	})

	t.Run("cancelar com motivo grava cancellation_reason", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		ap, err := newTransition(repo).Execute(ctx, id, domain.StatusCancelled, "cliente desistiu", nil)
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if ap.Status != string(domain.StatusCancelled) {
			t.Fatalf("status esperado cancelled, veio %s", ap.Status)
		}
		if ap.CancellationReason != "cliente desistiu" {
			t.Fatalf("motivo não gravado: %q", ap.CancellationReason)
		}
	})

	t.Run("estado terminal não aceita mais transição", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		uc := newTransition(repo)

		if _, err := uc.Execute(ctx, id, domain.StatusCancelled, "mudou de ideia", nil); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		_, err := uc.Execute(ctx, id, domain.StatusConfirmed, "", nil)

		var terminal *domain.TerminalStateError
		if !errors.As(err, &terminal) {
			t.Fatalf("esperava TerminalStateError, veio: %v", err)
		}
		if terminal.Status != domain.StatusCancelled {
			t.Fatalf("estado terminal errado: %s", terminal.Status)
		}
	})

	t.Run("no_show a partir de confirmed", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		uc := newTransition(repo)

		if _, err := uc.Execute(ctx, id, domain.StatusConfirmed, "", nil); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		ap, err := uc.Execute(ctx, id, domain.StatusNoShow, "", nil)
		if err != nil {
			t.Fatalf("no_show: %v", err)
		}
		if ap.Status != string(domain.StatusNoShow) {
			t.Fatalf("status esperado no_show, veio %s", ap.Status)
		}
	})

	t.Run("agendamento inexistente devolve not found", func(t *testing.T) {
		repo := newFakeRepo()

		_, err := newTransition(repo).Execute(ctx, 123, domain.StatusConfirmed, "", nil)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("esperava ErrNotFound, veio: %v", err)
		}
	})
}
