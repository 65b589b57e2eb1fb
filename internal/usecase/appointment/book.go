package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/igestaos-eng/barbearia/internal/audit"
	"github.com/igestaos-eng/barbearia/internal/cache"
	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/httperr"
	"github.com/igestaos-eng/barbearia/internal/models"
	"github.com/igestaos-eng/barbearia/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	// CustomerID direto, ou dados para get-or-create por telefone
	CustomerID    uint
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	BarberID  uint
	ServiceID uint

	ScheduledAt time.Time

	// Zero = usa a duração do serviço
	DurationMinutes int

	// Nil = copia o preço do serviço no momento da reserva
	Price *float64

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache cache.Cache

	tz string
	// Antecedência mínima em minutos; zero desliga a regra
	minAdvanceMinutes int
}

func NewBookAppointment(
	repo domain.Repository,
	auditDisp *audit.Dispatcher,
	c cache.Cache,
	tz string,
	minAdvanceMinutes int,
) *BookAppointment {
	return &BookAppointment{
		repo:              repo,
		audit:             auditDisp,
		cache:             c,
		tz:                tz,
		minAdvanceMinutes: minAdvanceMinutes,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Serviço (duração e preço de referência)
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		// timeout e afins sobem sem retry
		return nil, err
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = svc.DurationMin
	}
	if duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	price := svc.Price
	if in.Price != nil {
		price = *in.Price
	}
	if price < 0 {
		return nil, httperr.ErrBusiness("invalid_price")
	}

	// --------------------------------------------------
	// 2. Antecedência mínima (política, não regra do core)
	// --------------------------------------------------
	if uc.minAdvanceMinutes > 0 {
		now := timezone.NowIn(uc.tz)
		minAllowed := now.Add(time.Duration(uc.minAdvanceMinutes) * time.Minute)
		if in.ScheduledAt.Before(minAllowed) {
			return nil, httperr.ErrBusiness("too_soon")
		}
	}

	// --------------------------------------------------
	// 3. Cliente
	// --------------------------------------------------
	customerID := in.CustomerID
	if customerID == 0 {
		if in.CustomerPhone == "" {
			return nil, httperr.ErrBusiness("customer_required")
		}
		customer, err := uc.repo.GetOrCreateCustomer(
			ctx,
			in.CustomerName,
			in.CustomerPhone,
			in.CustomerEmail,
		)
		if err != nil {
			return nil, err
		}
		customerID = customer.ID
	}

	// --------------------------------------------------
	// 4. Conflito + criação: unidade atômica.
	// O FindConflict dentro da transação trava a agenda do barbeiro,
	// serializando reservas concorrentes mesmo em horário vazio.
	// --------------------------------------------------
	interval := domain.NewInterval(in.ScheduledAt, duration)

	ap := &models.Appointment{
		PublicRef:       uuid.New(),
		CustomerID:      customerID,
		BarberID:        in.BarberID,
		ServiceID:       svc.ID,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: duration,
		Status:          string(domain.InitialStatus()),
		Price:           price,
		Notes:           in.Notes,
	}

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		conflict, err := tx.FindConflict(ctx, in.BarberID, interval, 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &domain.ConflictError{ConflictingID: conflict.ID}
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Invalida o cache de disponibilidade do dia
	// --------------------------------------------------
	_ = uc.cache.Delete(ctx, cache.AvailabilityKey(in.BarberID, in.ScheduledAt))

	// --------------------------------------------------
	// 6. Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
