package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
)

func generatorCandidates() []models.ActivityCandidate {
	return []models.ActivityCandidate{
		{ID: "a1", Name: "Morning Run", Category: "fitness", Duration: 45},
		{ID: "a2", Name: "Deep Work Block", Category: "study", Duration: 90},
		{ID: "a3", Name: "Guitar Practice", Category: "music", Duration: 30},
		{ID: "a4", Name: "Strength Session", Category: "fitness", Duration: 60},
	}
}

func TestPlaceRandomProducesSevenOrderedDays(t *testing.T) {
	gen := NewTimetableGenerator(TimetableGeneratorConfig{})
	result := gen.Place(models.GenerationRandom, generatorCandidates(), rand.New(rand.NewSource(1)))

	require.Len(t, result, 7)
	for i, placement := range result {
		assert.Equal(t, i, placement.DayNumber)
		assert.False(t, placement.IsEmpty)
		assert.NotEmpty(t, placement.ActivityID)
		assert.Equal(t, SuggestStartTime(i), placement.StartTime)
	}
}

func TestPlaceRandomEmptyCandidatesEmitsEmptySlots(t *testing.T) {
	gen := NewTimetableGenerator(TimetableGeneratorConfig{})
	result := gen.Place(models.GenerationRandom, nil, rand.New(rand.NewSource(1)))

	require.Len(t, result, 7)
	for _, placement := range result {
		assert.True(t, placement.IsEmpty)
		assert.Empty(t, placement.ActivityID)
	}
}

func TestPlaceDeterministicUnderFixedSeed(t *testing.T) {
	gen := NewTimetableGenerator(TimetableGeneratorConfig{})
	for _, method := range []string{models.GenerationRandom, models.GenerationBalanced, models.GenerationSmart} {
		first := gen.Place(method, generatorCandidates(), rand.New(rand.NewSource(42)))
		second := gen.Place(method, generatorCandidates(), rand.New(rand.NewSource(42)))
		assert.Equal(t, first, second, "method %s should be reproducible", method)
	}
}

func TestPlaceBalancedCyclesCategories(t *testing.T) {
	gen := NewTimetableGenerator(TimetableGeneratorConfig{})
	result := gen.Place(models.GenerationBalanced, generatorCandidates(), rand.New(rand.NewSource(7)))

	// Three categories, all buckets non-empty: every day gets an entry and
	// day i draws from category i mod 3 in encounter order.
	require.Len(t, result, 7)
	wantOrder := []string{"fitness", "study", "music", "fitness", "study", "music", "fitness"}
	for i, placement := range result {
		assert.Equal(t, wantOrder[i], placement.Category)
	}
}

func TestPlaceBalancedDelegatesToRandomWithoutCategories(t *testing.T) {
	gen := NewTimetableGenerator(TimetableGeneratorConfig{})
	result := gen.Place(models.GenerationBalanced, nil, rand.New(rand.NewSource(3)))

	require.Len(t, result, 7)
	for _, placement := range result {
		assert.True(t, placement.IsEmpty)
	}
}

func TestPlaceBalancedFillEmptySlots(t *testing.T) {
	candidates := generatorCandidates()
	filled := NewTimetableGenerator(TimetableGeneratorConfig{FillEmptySlots: true}).
		Place(models.GenerationBalanced, candidates, rand.New(rand.NewSource(7)))
	require.Len(t, filled, 7)
}

func TestPlaceSmartAvoidsConsecutiveCategories(t *testing.T) {
	gen := NewTimetableGenerator(TimetableGeneratorConfig{})
	candidates := []models.ActivityCandidate{
		{ID: "a1", Name: "Run", Category: "fitness", Duration: 45},
		{ID: "a2", Name: "Read", Category: "study", Duration: 30},
		{ID: "a3", Name: "Jam", Category: "music", Duration: 40},
	}

	for seed := int64(0); seed < 20; seed++ {
		result := gen.Place(models.GenerationSmart, candidates, rand.New(rand.NewSource(seed)))
		require.Len(t, result, 7)
		for i := 1; i < len(result); i++ {
			assert.NotEqual(t, result[i-1].Category, result[i].Category,
				"seed %d day %d repeated category", seed, i)
		}
	}
}

func TestPlaceSmartWeekdayDurationCap(t *testing.T) {
	gen := NewTimetableGenerator(TimetableGeneratorConfig{})
	candidates := []models.ActivityCandidate{
		{ID: "a1", Name: "Short Run", Category: "fitness", Duration: 30},
		{ID: "a2", Name: "Short Read", Category: "study", Duration: 45},
		{ID: "a3", Name: "Long Hike", Category: "outdoors", Duration: 180},
	}

	for seed := int64(0); seed < 20; seed++ {
		result := gen.Place(models.GenerationSmart, candidates, rand.New(rand.NewSource(seed)))
		require.Len(t, result, 7)
		for i := 0; i < 5; i++ {
			// Two short categories alternate, so the filter never collapses
			// to the relaxation path on weekdays.
			assert.LessOrEqual(t, result[i].DurationMinutes, weekdayMaxDuration,
				"seed %d weekday %d over the cap", seed, i)
		}
	}
}

func TestPlaceSmartRelaxesWhenFilteredOut(t *testing.T) {
	gen := NewTimetableGenerator(TimetableGeneratorConfig{})
	// Single long activity: the weekday filter empties the pool every day,
	// so placement falls back to the unfiltered list instead of skipping.
	candidates := []models.ActivityCandidate{
		{ID: "a1", Name: "Marathon Prep", Category: "fitness", Duration: 120},
	}
	result := gen.Place(models.GenerationSmart, candidates, rand.New(rand.NewSource(5)))

	require.Len(t, result, 7)
	for _, placement := range result {
		assert.Equal(t, "a1", placement.ActivityID)
	}
}

func TestSuggestStartTimeTable(t *testing.T) {
	assert.Equal(t, "18:00:00", SuggestStartTime(0))
	assert.Equal(t, "18:00:00", SuggestStartTime(3))
	assert.Equal(t, "19:00:00", SuggestStartTime(4))
	assert.Equal(t, "15:00:00", SuggestStartTime(5))
	assert.Equal(t, "10:00:00", SuggestStartTime(6))
}

func TestWeekWindowSpansMondayToSunday(t *testing.T) {
	// 2026-08-26 is a Wednesday.
	window := weekWindow(time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-08-24", window.StartDate)
	assert.Equal(t, "2026-08-30", window.EndDate)
	assert.Positive(t, window.WeekNumber)

	// A Sunday belongs to the week that started the previous Monday.
	sunday := weekWindow(time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-08-24", sunday.StartDate)
}
