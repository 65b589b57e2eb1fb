package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/igestaos-eng/barbearia/internal/audit"
)

func TestMarkReminderSent(t *testing.T) {
	ctx := context.Background()

	t.Run("primeira chamada grava o timestamp", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		uc := NewMarkReminderSent(repo, audit.NewDispatcher(nil), testTZ)

		ap, err := uc.Execute(ctx, id)
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if !ap.ReminderSent {
			t.Fatalf("esperava reminder_sent true")
		}
		if ap.ReminderSentAt == nil {
			t.Fatalf("esperava reminder_sent_at gravado")
		}
	})

	t.Run("segunda chamada não mexe no timestamp original", func(t *testing.T) {
		repo := newFakeRepo()
		id := seedAppointment(t, repo)
		uc := NewMarkReminderSent(repo, audit.NewDispatcher(nil), testTZ)

		first, err := uc.Execute(ctx, id)
		if err != nil {
			t.Fatalf("primeira chamada: %v", err)
		}
		firstAt := *first.ReminderSentAt

		time.Sleep(5 * time.Millisecond)

		second, err := uc.Execute(ctx, id)
		if err != nil {
			t.Fatalf("segunda chamada: %v", err)
		}
		if !second.ReminderSent {
			t.Fatalf("flag deveria seguir true")
		}
		if !second.ReminderSentAt.Equal(firstAt) {
			t.Fatalf("timestamp mudou: %v -> %v", firstAt, second.ReminderSentAt)
		}
	})
}

func TestListDueReminders(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepo()
	seedService(repo)
	book := newBook(repo)

	loc := testClock(t).Location()
	now := time.Now().In(loc).Truncate(time.Minute)

	mk := func(customerID uint, at time.Time) uint {
		t.Helper()
		ap, err := book.Execute(ctx, BookAppointmentInput{
			CustomerID:  customerID,
			BarberID:    1,
			ServiceID:   1,
			ScheduledAt: at,
		})
		if err != nil {
			t.Fatalf("seed %d: %v", customerID, err)
		}
		return ap.ID
	}

	dueID := mk(1, now.Add(12*time.Hour))
	mk(2, now.Add(48*time.Hour)) // fora da janela
	alreadySentID := mk(3, now.Add(6*time.Hour))
	cancelledID := mk(4, now.Add(3*time.Hour))

	sent := NewMarkReminderSent(repo, audit.NewDispatcher(nil), testTZ)
	if _, err := sent.Execute(ctx, alreadySentID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if _, err := newTransition(repo).Execute(ctx, cancelledID, "cancelled", "cliente viajou", nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	uc := NewListDueReminders(repo, testTZ, 24*time.Hour)

	due, err := uc.Execute(ctx)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(due) != 1 {
		t.Fatalf("esperava 1 lembrete devido, vieram %d", len(due))
	}
	if due[0].ID != dueID {
		t.Fatalf("lembrete errado: %d", due[0].ID)
	}
}
