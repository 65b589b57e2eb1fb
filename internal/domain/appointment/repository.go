package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/igestaos-eng/barbearia/internal/models"
)

type Repository interface {
	// -------- Transação --------
	//
	// Book e Reschedule exigem que a checagem de conflito e a escrita
	// sejam uma unidade atômica. InTx entrega um Repository amarrado
	// à transação; dentro dela, FindConflict trava a agenda do
	// barbeiro até o commit.
	InTx(ctx context.Context, fn func(tx Repository) error) error

	// -------- Service --------
	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// FindConflict devolve o primeiro agendamento ativo do barbeiro que
	// cruza o intervalo, ignorando excludeID (0 = sem exclusão). Dentro
	// de InTx a chamada trava a agenda do barbeiro inteira: duas
	// transações checando o mesmo barbeiro rodam uma de cada vez,
	// mesmo quando o horário está vazio.
	FindConflict(
		ctx context.Context,
		barberID uint,
		interval Interval,
		excludeID uint,
	) (*models.Appointment, error)

	ListConflicts(
		ctx context.Context,
		barberID uint,
		interval Interval,
		excludeID uint,
	) ([]models.Appointment, error)

	// -------- Appointment (leitura / mutação) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
		includeArchived bool,
	) (*models.Appointment, error)

	GetAppointmentByRef(
		ctx context.Context,
		ref uuid.UUID,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Agenda / disponibilidade --------
	GetWorkingHours(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListActiveForDay(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
		includeArchived bool,
	) ([]models.Appointment, error)

	// -------- Lembretes --------
	ListDueReminders(
		ctx context.Context,
		windowStart time.Time,
		windowEnd time.Time,
	) ([]models.Appointment, error)
}
