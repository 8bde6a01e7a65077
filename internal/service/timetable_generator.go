package service

import (
	"math/rand"
	"time"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
)

// daySlot is one entry of the fixed weekly template, Monday first.
type daySlot struct {
	Number int
	Name   string
}

var weekTemplate = [7]daySlot{
	{0, "Monday"},
	{1, "Tuesday"},
	{2, "Wednesday"},
	{3, "Thursday"},
	{4, "Friday"},
	{5, "Saturday"},
	{6, "Sunday"},
}

// weekdayMaxDuration caps activity length on Monday-Friday for the smart strategy.
const weekdayMaxDuration = 60

// TimetableGeneratorConfig governs generator behaviour.
type TimetableGeneratorConfig struct {
	// FillEmptySlots makes the balanced strategy emit an explicit empty slot
	// for days whose category bucket is empty instead of omitting the day.
	FillEmptySlots bool
}

// TimetableGenerator produces weekly placements from a candidate list.
// It performs no I/O; randomness comes from the caller-supplied source so
// generation is reproducible under a fixed seed.
type TimetableGenerator struct {
	cfg TimetableGeneratorConfig
}

// NewTimetableGenerator constructs a generator.
func NewTimetableGenerator(cfg TimetableGeneratorConfig) *TimetableGenerator {
	return &TimetableGenerator{cfg: cfg}
}

// Place runs the named strategy over the candidates. Unknown method names
// fall back to random, mirroring the lenient dispatch of the HTTP layer.
func (g *TimetableGenerator) Place(method string, candidates []models.ActivityCandidate, rng *rand.Rand) []models.DayPlacement {
	switch method {
	case models.GenerationBalanced:
		return g.placeBalanced(candidates, rng)
	case models.GenerationSmart:
		return g.placeSmart(candidates, rng)
	default:
		return g.placeRandom(candidates, rng)
	}
}

// placeRandom draws one candidate per day uniformly with replacement.
// Always returns exactly seven placements; days without candidates are empty.
func (g *TimetableGenerator) placeRandom(candidates []models.ActivityCandidate, rng *rand.Rand) []models.DayPlacement {
	placements := make([]models.DayPlacement, 0, len(weekTemplate))
	for _, day := range weekTemplate {
		if len(candidates) == 0 {
			placements = append(placements, emptyPlacement(day))
			continue
		}
		pick := candidates[rng.Intn(len(candidates))]
		placements = append(placements, placementFor(day, pick))
	}
	return placements
}

// placeBalanced cycles categories across the week so variety is spread
// evenly instead of left to chance. Categories keep candidate encounter
// order. A day whose assigned bucket is empty produces no entry unless
// FillEmptySlots is set; callers must tolerate fewer than seven placements.
func (g *TimetableGenerator) placeBalanced(candidates []models.ActivityCandidate, rng *rand.Rand) []models.DayPlacement {
	groups := make(map[string][]models.ActivityCandidate)
	categories := make([]string, 0)
	for _, candidate := range candidates {
		if _, seen := groups[candidate.Category]; !seen {
			categories = append(categories, candidate.Category)
		}
		groups[candidate.Category] = append(groups[candidate.Category], candidate)
	}

	if len(categories) == 0 {
		return g.placeRandom(candidates, rng)
	}

	placements := make([]models.DayPlacement, 0, len(weekTemplate))
	for i, day := range weekTemplate {
		bucket := groups[categories[i%len(categories)]]
		if len(bucket) == 0 {
			if g.cfg.FillEmptySlots {
				placements = append(placements, emptyPlacement(day))
			}
			continue
		}
		pick := bucket[rng.Intn(len(bucket))]
		placements = append(placements, placementFor(day, pick))
	}
	return placements
}

// placeSmart walks the week with two soft rules: never repeat the previous
// day's category, and keep weekday activities at or under an hour. When the
// rules filter every candidate out, the day relaxes to the full list rather
// than staying unfilled.
func (g *TimetableGenerator) placeSmart(candidates []models.ActivityCandidate, rng *rand.Rand) []models.DayPlacement {
	placements := make([]models.DayPlacement, 0, len(weekTemplate))
	lastCategory := ""

	for i, day := range weekTemplate {
		if len(candidates) == 0 {
			placements = append(placements, emptyPlacement(day))
			continue
		}

		isWeekday := i < 5
		eligible := make([]models.ActivityCandidate, 0, len(candidates))
		for _, candidate := range candidates {
			if lastCategory != "" && candidate.Category == lastCategory {
				continue
			}
			if isWeekday && candidate.Duration > weekdayMaxDuration {
				continue
			}
			eligible = append(eligible, candidate)
		}
		if len(eligible) == 0 {
			eligible = candidates
		}

		pick := eligible[rng.Intn(len(eligible))]
		lastCategory = pick.Category
		placements = append(placements, placementFor(day, pick))
	}
	return placements
}

// SuggestStartTime maps a day number to a suggested clock time: weekday
// evenings, a later Friday, Saturday afternoon and Sunday morning.
func SuggestStartTime(dayNumber int) string {
	switch {
	case dayNumber >= 0 && dayNumber <= 3:
		return "18:00:00"
	case dayNumber == 4:
		return "19:00:00"
	case dayNumber == 5:
		return "15:00:00"
	default:
		return "10:00:00"
	}
}

func placementFor(day daySlot, candidate models.ActivityCandidate) models.DayPlacement {
	return models.DayPlacement{
		DayNumber:       day.Number,
		DayName:         day.Name,
		ActivityID:      candidate.ID,
		ActivityName:    candidate.Name,
		Category:        candidate.Category,
		DurationMinutes: candidate.Duration,
		StartTime:       SuggestStartTime(day.Number),
	}
}

func emptyPlacement(day daySlot) models.DayPlacement {
	return models.DayPlacement{
		DayNumber: day.Number,
		DayName:   day.Name,
		IsEmpty:   true,
	}
}

// weekWindow computes the Monday-Sunday window containing the given date.
func weekWindow(now time.Time) models.WeekWindow {
	offset := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		offset = 6
	}
	monday := now.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)

	firstOfYear := time.Date(monday.Year(), time.January, 1, 0, 0, 0, 0, monday.Location())
	days := int(monday.Sub(firstOfYear).Hours() / 24)
	week := (days+int(firstOfYear.Weekday())+1+6) / 7

	return models.WeekWindow{
		StartDate:  monday.Format("2006-01-02"),
		EndDate:    sunday.Format("2006-01-02"),
		WeekNumber: week,
	}
}
