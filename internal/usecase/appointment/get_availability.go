package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/igestaos-eng/barbearia/internal/cache"
	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/httperr"
)

const availabilityTTL = 5 * time.Minute

type GetAvailability struct {
	repo  domain.Repository
	cache cache.Cache
}

func NewGetAvailability(repo domain.Repository, c cache.Cache) *GetAvailability {
	return &GetAvailability{repo: repo, cache: c}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	product, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}

	// Uma chave por barbeiro+dia, com os slots de cada serviço dentro;
	// qualquer escrita na agenda do dia derruba a chave inteira
	cacheKey := cache.AvailabilityKey(in.BarberID, in.Date)
	svcKey := fmt.Sprintf("%d", in.ServiceID)

	byService := map[string][]domain.TimeSlot{}
	if raw, ok, _ := uc.cache.Get(ctx, cacheKey); ok {
		if err := json.Unmarshal(raw, &byService); err == nil {
			if cached, ok := byService[svcKey]; ok {
				return cached, nil
			}
		}
	}

	weekday := int(in.Date.Weekday())

	wh, err := uc.repo.GetWorkingHours(ctx, in.BarberID, weekday)
	if err != nil {
		// sem jornada cadastrada = dia de folga; qualquer outro erro
		// do store sobe
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.TimeSlot{}, nil
		}
		return nil, err
	}
	if !wh.Active {
		return []domain.TimeSlot{}, nil
	}

	loc := in.Date.Location()

	parseHM := func(hm string) (time.Time, error) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(
			in.Date.Year(), in.Date.Month(), in.Date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), nil
	}

	dayStart, err := parseHM(wh.StartTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_working_hours")
	}
	dayEnd, err := parseHM(wh.EndTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_working_hours")
	}

	hasLunch := wh.LunchStart != "" && wh.LunchEnd != ""
	var lunchStart, lunchEnd time.Time
	if hasLunch {
		if lunchStart, err = parseHM(wh.LunchStart); err != nil {
			return nil, httperr.ErrBusiness("invalid_working_hours")
		}
		if lunchEnd, err = parseHM(wh.LunchEnd); err != nil {
			return nil, httperr.ErrBusiness("invalid_working_hours")
		}
	}

	appointments, err := uc.repo.ListActiveForDay(
		ctx,
		in.BarberID,
		dayStart,
		dayEnd,
	)
	if err != nil {
		return nil, err
	}

	slotDuration := time.Duration(product.DurationMin) * time.Minute
	slots := []domain.TimeSlot{}

	apIdx := 0

	for cur := dayStart; !cur.Add(slotDuration).After(dayEnd); cur = cur.Add(slotDuration) {

		slot := domain.Interval{Start: cur, End: cur.Add(slotDuration)}

		// almoço
		if hasLunch && slot.Overlaps(domain.Interval{Start: lunchStart, End: lunchEnd}) {
			continue
		}

		// avança agendamentos já encerrados antes do slot
		for apIdx < len(appointments) && !appointments[apIdx].EndTime().After(slot.Start) {
			apIdx++
		}

		conflict := false
		if apIdx < len(appointments) {
			ap := appointments[apIdx]
			booked := domain.Interval{Start: ap.ScheduledAt, End: ap.EndTime()}
			conflict = slot.Overlaps(booked)
		}

		if !conflict {
			slots = append(slots, domain.TimeSlot{
				Start: slot.Start.Format("15:04"),
				End:   slot.End.Format("15:04"),
			})
		}
	}

	byService[svcKey] = slots
	if raw, err := json.Marshal(byService); err == nil {
		_ = uc.cache.Set(ctx, cacheKey, raw, availabilityTTL)
	}

	return slots, nil
}
