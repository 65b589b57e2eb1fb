package appointment

import (
	"context"
	"time"

	domain "github.com/igestaos-eng/barbearia/internal/domain/appointment"
	"github.com/igestaos-eng/barbearia/internal/httperr"
)

// ConflictsFor expõe a checagem de sobreposição para pré-validação de
// UI; a mesma consulta que Book/Reschedule rodam, só que sem lock
type ConflictsFor struct {
	repo domain.Repository
}

func NewConflictsFor(repo domain.Repository) *ConflictsFor {
	return &ConflictsFor{repo: repo}
}

func (uc *ConflictsFor) Execute(
	ctx context.Context,
	barberID uint,
	start time.Time,
	durationMinutes int,
	excludeID uint,
) ([]uint, error) {

	if durationMinutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	apps, err := uc.repo.ListConflicts(
		ctx,
		barberID,
		domain.NewInterval(start, durationMinutes),
		excludeID,
	)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(apps))
	for _, ap := range apps {
		ids = append(ids, ap.ID)
	}

	return ids, nil
}
