package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// activeScope filtra agendamentos que contam para conflito:
// status fora de cancelled/no_show e não arquivados
func activeScope(db *gorm.DB) *gorm.DB {
	return db.
		Where("status NOT IN ?", []string{
			string(domain.StatusCancelled),
			string(domain.StatusNoShow),
		}).
		Where("archived = ?", false)
}

// translateErr converte erros do store para o vocabulário do domínio
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStorageTimeout
	}
	return err
}

// --------------------------------------------------
// Transação
// --------------------------------------------------

func (r *AppointmentGormRepository) InTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
	return translateErr(err)
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", serviceID, true).
		First(&svc).Error; err != nil {
		return nil, translateErr(err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateErr(err)
	}

	customer = models.Customer{
		Name:  name,
		Phone: phone,
		Email: email,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, translateErr(err)
	}

	return &customer, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return translateErr(r.db.WithContext(ctx).Create(ap).Error)
}

// Classe dos advisory locks de agenda (primeiro argumento do
// pg_advisory_xact_lock de dois inteiros)
const schedulingLockClass = 1

// FindConflict serializa reservas concorrentes do mesmo barbeiro.
// O advisory lock transacional cobre o slot vazio, onde o FOR UPDATE
// não tem linha nenhuma para travar; o FOR UPDATE segura as linhas
// existentes até o commit.
func (r *AppointmentGormRepository) FindConflict(
	ctx context.Context,
	barberID uint,
	interval domain.Interval,
	excludeID uint,
) (*models.Appointment, error) {

	if err := r.db.WithContext(ctx).
		Exec(
			"SELECT pg_advisory_xact_lock(?, ?)",
			schedulingLockClass,
			int32(barberID),
		).Error; err != nil {
		return nil, translateErr(err)
	}

	q := activeScope(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("barber_id = ?", barberID).
		Where(
			"scheduled_at < ? AND scheduled_at + make_interval(mins => duration_minutes) > ?",
			interval.End,
			interval.Start,
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var ap models.Appointment
	if err := q.Order("scheduled_at ASC").First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateErr(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) ListConflicts(
	ctx context.Context,
	barberID uint,
	interval domain.Interval,
	excludeID uint,
) ([]models.Appointment, error) {

	q := activeScope(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Where("barber_id = ?", barberID).
		Where(
			"scheduled_at < ? AND scheduled_at + make_interval(mins => duration_minutes) > ?",
			interval.End,
			interval.Start,
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var apps []models.Appointment
	if err := q.Order("scheduled_at ASC").Find(&apps).Error; err != nil {
		return nil, translateErr(err)
	}

	return apps, nil
}

// --------------------------------------------------
// Appointment (leitura / mutação)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
	includeArchived bool,
) (*models.Appointment, error) {

	q := r.db.WithContext(ctx)
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}

	var ap models.Appointment
	if err := q.First(&ap, appointmentID).Error; err != nil {
		return nil, translateErr(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByRef(
	ctx context.Context,
	ref uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("public_ref = ? AND archived = ?", ref, false).
		First(&ap).Error; err != nil {
		return nil, translateErr(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return translateErr(r.db.WithContext(ctx).Save(ap).Error)
}

// --------------------------------------------------
// Agenda / disponibilidade
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	barberID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		First(&wh).Error; err != nil {
		return nil, translateErr(err)
	}

	return &wh, nil
}

func (r *AppointmentGormRepository) ListActiveForDay(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := activeScope(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Select("id", "scheduled_at", "duration_minutes").
		Where(
			"barber_id = ? AND scheduled_at >= ? AND scheduled_at < ?",
			barberID, start, end,
		).
		Order("scheduled_at ASC").
		Find(&apps).Error; err != nil {
		return nil, translateErr(err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	includeArchived bool,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Where(
			"barber_id = ? AND scheduled_at >= ? AND scheduled_at < ?",
			barberID, start, end,
		)

	if !includeArchived {
		q = q.Where("archived = ?", false)
	}

	var apps []models.Appointment
	if err := q.Order("scheduled_at ASC").Find(&apps).Error; err != nil {
		return nil, translateErr(err)
	}

	return apps, nil
}

// --------------------------------------------------
// Lembretes
// --------------------------------------------------

func (r *AppointmentGormRepository) ListDueReminders(
	ctx context.Context,
	windowStart time.Time,
	windowEnd time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := activeScope(r.db.WithContext(ctx).Model(&models.Appointment{})).
		Preload("Customer").
		Where("reminder_sent = ?", false).
		Where(
			"scheduled_at >= ? AND scheduled_at < ?",
			windowStart, windowEnd,
		).
		Order("scheduled_at ASC").
		Find(&apps).Error; err != nil {
		return nil, translateErr(err)
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
