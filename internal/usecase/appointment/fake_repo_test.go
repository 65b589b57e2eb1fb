package appointment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/models"
)

// fakeRepo implementa domain.Repository em memória. O txMu serializa
// InTx inteiro, reproduzindo o advisory lock de agenda do Postgres:
// dois Book concorrentes nunca rodam a checagem de conflito ao mesmo
// tempo, mesmo com o horário vazio.
type fakeRepo struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextAppointmentID uint
	nextCustomerID    uint

	appointments map[uint]*models.Appointment
	services     map[uint]*models.Service
	customers    map[uint]*models.Customer
	workingHours map[string]*models.WorkingHours

	// Injeção de falha do store, por operação
	getServiceErr   error
	findConflictErr error
	createErr       error
	updateErr       error
	workingHoursErr error

	conflictChecks int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		appointments: map[uint]*models.Appointment{},
		services:     map[uint]*models.Service{},
		customers:    map[uint]*models.Customer{},
		workingHours: map[string]*models.WorkingHours{},
	}
}

func (f *fakeRepo) addService(svc models.Service) *models.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := svc
	f.services[s.ID] = &s
	return &s
}

func (f *fakeRepo) addWorkingHours(wh models.WorkingHours) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := wh
	f.workingHours[fmt.Sprintf("%d:%d", w.BarberID, w.Weekday)] = &w
}

func (f *fakeRepo) InTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	return fn(f)
}

func (f *fakeRepo) GetService(ctx context.Context, serviceID uint) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getServiceErr != nil {
		return nil, f.getServiceErr
	}

	svc, ok := f.services[serviceID]
	if !ok || !svc.Active {
		return nil, domain.ErrNotFound
	}
	out := *svc
	return &out, nil
}

func (f *fakeRepo) GetOrCreateCustomer(ctx context.Context, name, phone, email string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.customers {
		if c.Phone == phone {
			out := *c
			return &out, nil
		}
	}

	f.nextCustomerID++
	c := &models.Customer{
		ID:    f.nextCustomerID,
		Name:  name,
		Phone: phone,
		Email: email,
	}
	f.customers[c.ID] = c

	out := *c
	return &out, nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	f.nextAppointmentID++
	ap.ID = f.nextAppointmentID
	if ap.PublicRef == uuid.Nil {
		ap.PublicRef = uuid.New()
	}

	stored := *ap
	f.appointments[ap.ID] = &stored
	return nil
}

func (f *fakeRepo) activeOverlapping(
	barberID uint,
	interval domain.Interval,
	excludeID uint,
) []*models.Appointment {

	var out []*models.Appointment
	for _, ap := range f.appointments {
		if ap.BarberID != barberID || ap.ID == excludeID {
			continue
		}
		if ap.Archived || !domain.IsActive(domain.Status(ap.Status)) {
			continue
		}
		existing := domain.Interval{Start: ap.ScheduledAt, End: ap.EndTime()}
		if existing.Overlaps(interval) {
			out = append(out, ap)
		}
	}
	return out
}

func (f *fakeRepo) FindConflict(
	ctx context.Context,
	barberID uint,
	interval domain.Interval,
	excludeID uint,
) (*models.Appointment, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	f.conflictChecks++
	if f.findConflictErr != nil {
		return nil, f.findConflictErr
	}

	overlapping := f.activeOverlapping(barberID, interval, excludeID)
	if len(overlapping) == 0 {
		return nil, nil
	}
	out := *overlapping[0]
	return &out, nil
}

func (f *fakeRepo) ListConflicts(
	ctx context.Context,
	barberID uint,
	interval domain.Interval,
	excludeID uint,
) ([]models.Appointment, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.activeOverlapping(barberID, interval, excludeID) {
		out = append(out, *ap)
	}
	return out, nil
}

func (f *fakeRepo) GetAppointment(
	ctx context.Context,
	appointmentID uint,
	includeArchived bool,
) (*models.Appointment, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	ap, ok := f.appointments[appointmentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if ap.Archived && !includeArchived {
		return nil, domain.ErrNotFound
	}

	out := *ap
	return &out, nil
}

func (f *fakeRepo) GetAppointmentByRef(
	ctx context.Context,
	ref uuid.UUID,
) (*models.Appointment, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ap := range f.appointments {
		if ap.PublicRef == ref && !ap.Archived {
			out := *ap
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}

	if _, ok := f.appointments[ap.ID]; !ok {
		return domain.ErrNotFound
	}

	stored := *ap
	f.appointments[ap.ID] = &stored
	return nil
}

func (f *fakeRepo) GetWorkingHours(
	ctx context.Context,
	barberID uint,
	weekday int,
) (*models.WorkingHours, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.workingHoursErr != nil {
		return nil, f.workingHoursErr
	}

	wh, ok := f.workingHours[fmt.Sprintf("%d:%d", barberID, weekday)]
	if !ok {
		return nil, domain.ErrNotFound
	}

	out := *wh
	return &out, nil
}

func (f *fakeRepo) ListActiveForDay(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	return f.listRange(barberID, start, end, false, true)
}

func (f *fakeRepo) ListForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	includeArchived bool,
) ([]models.Appointment, error) {
	return f.listRange(barberID, start, end, includeArchived, false)
}

func (f *fakeRepo) listRange(
	barberID uint,
	start time.Time,
	end time.Time,
	includeArchived bool,
	activeOnly bool,
) ([]models.Appointment, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.BarberID != barberID {
			continue
		}
		if ap.Archived && !includeArchived {
			continue
		}
		if activeOnly && (ap.Archived || !domain.IsActive(domain.Status(ap.Status))) {
			continue
		}
		if ap.ScheduledAt.Before(start) || !ap.ScheduledAt.Before(end) {
			continue
		}
		out = append(out, *ap)
	}

	sortByScheduledAt(out)
	return out, nil
}

func (f *fakeRepo) ListDueReminders(
	ctx context.Context,
	windowStart time.Time,
	windowEnd time.Time,
) ([]models.Appointment, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.ReminderSent || ap.Archived || !domain.IsActive(domain.Status(ap.Status)) {
			continue
		}
		if ap.ScheduledAt.Before(windowStart) || !ap.ScheduledAt.Before(windowEnd) {
			continue
		}
		out = append(out, *ap)
	}

	sortByScheduledAt(out)
	return out, nil
}

func sortByScheduledAt(apps []models.Appointment) {
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].ScheduledAt.Before(apps[j].ScheduledAt)
	})
}

var _ domain.Repository = (*fakeRepo)(nil)
