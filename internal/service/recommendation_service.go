package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
)

type activityStore interface {
	FindByPreferencesAndGoal(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error)
	InsertMany(ctx context.Context, activities []models.Activity) ([]models.Activity, error)
}

type recommendationHistoryStore interface {
	Append(ctx context.Context, record *models.RecommendationHistory) error
	ListRecent(ctx context.Context, limit int) ([]models.HistoryEntry, error)
}

type selectionStore interface {
	InsertMany(ctx context.Context, selections []models.ActivitySelection) error
}

// RecommendationConfig tunes the blending pipeline.
type RecommendationConfig struct {
	DefaultMaxActivities int
	HistoryLimit         int
}

// RecommendationService blends persisted activities with synthesized
// fallback candidates from the static reference library.
type RecommendationService struct {
	activities activityStore
	history    recommendationHistoryStore
	selections selectionStore
	library    []models.LibraryEntry
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        RecommendationConfig
	newRNG     func() *rand.Rand
}

// NewRecommendationService wires the recommendation dependencies. The rng
// factory may be nil, in which case each call gets a time-seeded source;
// tests inject a fixed seed for reproducible synthesis.
func NewRecommendationService(
	activities activityStore,
	history recommendationHistoryStore,
	selections selectionStore,
	lib []models.LibraryEntry,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg RecommendationConfig,
	newRNG func() *rand.Rand,
) *RecommendationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultMaxActivities <= 0 {
		cfg.DefaultMaxActivities = 6
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	if newRNG == nil {
		newRNG = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &RecommendationService{
		activities: activities,
		history:    history,
		selections: selections,
		library:    lib,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		newRNG:     newRNG,
	}
}

// Recommend runs the hybrid pipeline: query the store, synthesize fallback
// candidates for any shortfall, normalize durations to the requested time
// budget, deduplicate by title and record an immutable history snapshot.
func (s *RecommendationService) Recommend(ctx context.Context, req dto.RecommendRequest) (*dto.RecommendResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recommendation payload")
	}

	requested := req.MaxActivities
	if requested <= 0 {
		requested = s.cfg.DefaultMaxActivities
	}

	// Matching is case-insensitive exact: preferences and goal are
	// normalized once and compared whole, not as substrings.
	preferences := normalizeTerms(req.Preferences)
	goal := strings.ToLower(strings.TrimSpace(req.Goal))

	matched, err := s.activities.FindByPreferencesAndGoal(ctx, models.ActivityFilter{
		Preferences: preferences,
		Goal:        goal,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to query activities")
	}

	source := models.SourceDatabase
	combined := matched

	if len(matched) < requested {
		needed := requested - len(matched)
		synthesized := s.synthesizeFallback(preferences, goal, req.AvailableTime, needed, s.newRNG())
		if len(synthesized) > 0 {
			inserted, err := s.activities.InsertMany(ctx, synthesized)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to persist fallback activities")
			}
			combined = append(combined, inserted...)
		}
		if len(combined) == 0 {
			source = models.SourceFallback
		} else {
			source = models.SourceMixed
		}
	}

	// Every returned activity shares the same slice of the time budget,
	// overwriting any duration computed during synthesis.
	perActivity := req.AvailableTime / requested
	for i := range combined {
		combined[i].Duration = perActivity
	}

	unique := dedupeByTitle(combined)

	ids := make([]string, 0, len(unique))
	for _, activity := range unique {
		ids = append(ids, activity.ID)
	}

	record := &models.RecommendationHistory{
		Preferences:   preferences,
		Goal:          goal,
		MaxActivities: requested,
		ActivityIDs:   ids,
		Source:        source,
	}
	if err := s.history.Append(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to record recommendation history")
	}

	s.logger.Debug("recommendation produced",
		zap.String("source", source),
		zap.Int("matched", len(matched)),
		zap.Int("returned", len(unique)),
	)

	return &dto.RecommendResponse{
		Source:     source,
		Activities: unique,
		HistoryID:  record.ID,
	}, nil
}

// History returns the most recent recommendation snapshots, each with its
// hydrated activities deduplicated by title.
func (s *RecommendationService) History(ctx context.Context) ([]models.HistoryEntry, error) {
	entries, err := s.history.ListRecent(ctx, s.cfg.HistoryLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list recommendation history")
	}
	for i := range entries {
		entries[i].Activities = dedupeByTitle(entries[i].Activities)
	}
	return entries, nil
}

// SaveSelection records which recommended activities a user picked.
func (s *RecommendationService) SaveSelection(ctx context.Context, req dto.SaveSelectionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}
	selections := make([]models.ActivitySelection, 0, len(req.ActivityIDs))
	for _, id := range req.ActivityIDs {
		selections = append(selections, models.ActivitySelection{
			SessionID:  req.SessionID,
			ActivityID: id,
		})
	}
	if err := s.selections.InsertMany(ctx, selections); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to save selections")
	}
	return nil
}

// synthesizeFallback generates up to needed candidates from the static
// library, skipping titles already used in this batch. The loop stops once
// every title the request can reach has been tried, so a small library
// cannot spin forever on a large request.
func (s *RecommendationService) synthesizeFallback(preferences []string, goal string, availableTime, needed int, rng *rand.Rand) []models.Activity {
	if needed <= 0 || len(s.library) == 0 {
		return nil
	}

	reachable := s.reachableTitles(preferences, goal)
	perActivity := availableTime / needed
	usedTitles := make(map[string]struct{}, needed)
	generated := make([]models.Activity, 0, needed)

	for len(generated) < needed {
		preference := ""
		if len(preferences) > 0 {
			preference = preferences[rng.Intn(len(preferences))]
		}

		pool := s.libraryMatches(preference, goal)
		if len(pool) == 0 {
			pool = s.library
		}
		entry := pool[rng.Intn(len(pool))]

		if _, seen := usedTitles[entry.Title]; !seen {
			activity := models.Activity{
				Title:       entry.Title,
				Description: entry.Description,
				Preference:  entry.Preference,
				Goal:        goal,
				Category:    entry.Category,
				Duration:    perActivity,
			}
			if preference != "" {
				activity.Preference = preference
			}
			generated = append(generated, activity)
			usedTitles[entry.Title] = struct{}{}
		}

		if len(usedTitles) == len(reachable) {
			break
		}
	}

	return generated
}

// reachableTitles collects every library title a synthesis run could draw,
// across all requested preferences and including the whole-library fallback
// used when a preference matches nothing.
func (s *RecommendationService) reachableTitles(preferences []string, goal string) map[string]struct{} {
	prefs := preferences
	if len(prefs) == 0 {
		prefs = []string{""}
	}
	titles := make(map[string]struct{}, len(s.library))
	for _, preference := range prefs {
		pool := s.libraryMatches(preference, goal)
		if len(pool) == 0 {
			pool = s.library
		}
		for _, entry := range pool {
			titles[entry.Title] = struct{}{}
		}
	}
	return titles
}

// libraryMatches filters the library on preference and goal. With no
// preference requested, goal alone narrows the pool.
func (s *RecommendationService) libraryMatches(preference, goal string) []models.LibraryEntry {
	matches := make([]models.LibraryEntry, 0)
	for _, entry := range s.library {
		if preference != "" && entry.Preference != preference {
			continue
		}
		if entry.Goal != goal {
			continue
		}
		matches = append(matches, entry)
	}
	return matches
}

// dedupeByTitle keeps the first occurrence of each title. Running it over
// an already deduplicated slice returns the same slice content.
func dedupeByTitle(activities []models.Activity) []models.Activity {
	seen := make(map[string]struct{}, len(activities))
	unique := make([]models.Activity, 0, len(activities))
	for _, activity := range activities {
		if _, ok := seen[activity.Title]; ok {
			continue
		}
		seen[activity.Title] = struct{}{}
		unique = append(unique, activity)
	}
	return unique
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if normalized := strings.ToLower(strings.TrimSpace(term)); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}
