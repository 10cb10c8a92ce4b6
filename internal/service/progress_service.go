package service

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campusworks/teacher-portal-api/internal/gateway"
	"github.com/campusworks/teacher-portal-api/internal/models"
)

// untitledUnitName stands in for units the feed delivers without a name so
// they still participate in deduplication.
const untitledUnitName = "Untitled Unit"

// UnitCompletionFetcher is the slice of the gateway the engine needs.
type UnitCompletionFetcher interface {
	UnitCompletion(ctx context.Context, req gateway.UnitCompletionRequest) (int, error)
}

// ProgressService computes per-unit completion and per-course progress from
// independent upstream calls.
type ProgressService interface {
	DedupeUnits(units []models.Unit) []models.Unit
	CourseProgress(ctx context.Context, student models.Identity, courseID string, units []models.Unit, onUnit func(unitID string, percentage int)) (map[string]int, int)
}

type progressService struct {
	fetcher UnitCompletionFetcher
	logger  zerolog.Logger
}

// NewProgressService builds the unit/course aggregation engine.
func NewProgressService(fetcher UnitCompletionFetcher, logger zerolog.Logger) ProgressService {
	return &progressService{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "progress_service").Logger(),
	}
}

// DedupeUnits collapses units sharing a name to one logical unit. The first
// occurrence is kept, and replaced only when a later duplicate carries
// sub-units while the kept one has none. Survivor order is first-seen order.
func (s *progressService) DedupeUnits(units []models.Unit) []models.Unit {
	order := make([]string, 0, len(units))
	byName := make(map[string]models.Unit, len(units))

	for _, unit := range units {
		name := unit.UnitName
		if name == "" {
			name = untitledUnitName
		}

		existing, seen := byName[name]
		if !seen {
			order = append(order, name)
			byName[name] = unit
			continue
		}
		if len(existing.SubUnits) == 0 && len(unit.SubUnits) > 0 {
			byName[name] = unit
		}
	}

	result := make([]models.Unit, 0, len(order))
	for _, name := range order {
		result = append(result, byName[name])
	}
	return result
}

// CourseProgress fans out one completion request per unit, concurrently and
// independently: a unit whose fetch fails or parses badly contributes 0 and
// never aborts its siblings. onUnit, when non-nil, fires as each unit
// settles. The return values are the full completion map and the course
// progress, the rounded mean of all unit completions (0 for no units).
func (s *progressService) CourseProgress(ctx context.Context, student models.Identity, courseID string, units []models.Unit, onUnit func(unitID string, percentage int)) (map[string]int, int) {
	completions := make(map[string]int, len(units))
	if len(units) == 0 {
		return completions, 0
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, unit := range units {
		wg.Add(1)
		go func(unit models.Unit) {
			defer wg.Done()

			percentage, err := s.fetcher.UnitCompletion(ctx, gateway.UnitCompletionRequest{
				StudentID: student.EffectiveID(),
				CourseID:  courseID,
				UnitID:    unit.UnitID,
			})
			if err != nil {
				s.logger.Debug().Err(err).Str("unit_id", unit.UnitID).Msg("unit completion fetch failed")
				percentage = 0
			}

			mu.Lock()
			completions[unit.UnitID] = percentage
			mu.Unlock()

			if onUnit != nil {
				onUnit(unit.UnitID, percentage)
			}
		}(unit)
	}

	wg.Wait()

	total := 0
	for _, percentage := range completions {
		total += percentage
	}

	progress := int(math.Round(float64(total) / float64(len(units))))
	return completions, progress
}
