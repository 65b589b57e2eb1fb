package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/igestaos-eng/barbearia/internal/audit"
	"github.com/igestaos-eng/barbearia/internal/cache"
	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
)

func newArchive(repo *fakeRepo) *ArchiveAppointment {
	return NewArchiveAppointment(repo, audit.NewDispatcher(nil), cache.NewNoop(), testTZ)
}

func newRestore(repo *fakeRepo) *RestoreAppointment {
	return NewRestoreAppointment(repo, audit.NewDispatcher(nil), cache.NewNoop())
}

func TestArchiveAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("arquivado some das consultas ativas", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		ap, err := newArchive(repo).Execute(ctx, id, nil)
		if err != nil {
			t.Fatalf("archive: %v", err)
		}
		if !ap.Archived || ap.ArchivedAt == nil {
			t.Fatalf("esperava archived com timestamp")
		}

		if _, err := repo.GetAppointment(ctx, id, false); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("consulta ativa deveria dar not found, veio: %v", err)
		}
		if _, err := repo.GetAppointment(ctx, id, true); err != nil {
			t.Fatalf("consulta com arquivados deveria achar, veio: %v", err)
		}
	})

	t.Run("arquivar libera o horário para nova reserva", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		if _, err := newArchive(repo).Execute(ctx, id, nil); err != nil {
			t.Fatalf("archive: %v", err)
		}

		if _, err := newBook(repo).Execute(ctx, BookAppointmentInput{
			CustomerID:  2,
			BarberID:    1,
			ServiceID:   1,
			ScheduledAt: testClock(t),
		}); err != nil {
			t.Fatalf("horário de arquivado deveria estar livre, veio: %v", err)
		}
	})

	t.Run("restore traz de volta com status preservado", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		if _, err := newTransition(repo).Execute(ctx, id, domain.StatusConfirmed, "", nil); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if _, err := newArchive(repo).Execute(ctx, id, nil); err != nil {
			t.Fatalf("archive: %v", err)
		}

		ap, err := newRestore(repo).Execute(ctx, id, nil)
		if err != nil {
			t.Fatalf("restore: %v", err)
		}
		if ap.Archived || ap.ArchivedAt != nil {
			t.Fatalf("esperava archived limpo")
		}
		if ap.Status != string(domain.StatusConfirmed) {
			t.Fatalf("status deveria seguir confirmed, veio %s", ap.Status)
		}

		if _, err := repo.GetAppointment(ctx, id, false); err != nil {
			t.Fatalf("restaurado deveria aparecer nas consultas ativas: %v", err)
		}
	})

	t.Run("arquivar duas vezes mantém o primeiro timestamp", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		uc := newArchive(repo)

		first, err := uc.Execute(ctx, id, nil)
		if err != nil {
			t.Fatalf("primeira: %v", err)
		}
		firstAt := *first.ArchivedAt

		second, err := uc.Execute(ctx, id, nil)
		if err != nil {
			t.Fatalf("segunda: %v", err)
		}
		if !second.ArchivedAt.Equal(firstAt) {
			t.Fatalf("timestamp mudou: %v -> %v", firstAt, second.ArchivedAt)
		}
	})
}

func TestConflictsFor(t *testing.T) {
	ctx := context.Background()

	t.Run("lista ids dos agendamentos sobrepostos", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		uc := NewConflictsFor(repo)

		ids, err := uc.Execute(ctx, 1, testClock(t), 30, 0)
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if len(ids) != 1 || ids[0] != id {
			t.Fatalf("esperava [%d], veio %v", id, ids)
		}
	})

	t.Run("arquivado não conta como conflito", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		if _, err := newArchive(repo).Execute(ctx, id, nil); err != nil {
			t.Fatalf("archive: %v", err)
		}

		ids, err := NewConflictsFor(repo).Execute(ctx, 1, testClock(t), 30, 0)
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if len(ids) != 0 {
			t.Fatalf("esperava lista vazia, veio %v", ids)
		}
	})

	t.Run("excludeID tira o próprio agendamento da lista", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)

		ids, err := NewConflictsFor(repo).Execute(ctx, 1, testClock(t), 30, id)
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if len(ids) != 0 {
			t.Fatalf("esperava lista vazia, veio %v", ids)
		}
	})

	t.Run("duração inválida é rejeitada", func(t *testing.T) {
		repo := newFakeRepo()

		if _, err := NewConflictsFor(repo).Execute(ctx, 1, testClock(t), 0, 0); err == nil {
			t.Fatalf("esperava erro de duração inválida")
		}
	})
}
