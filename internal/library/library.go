// Package library holds the static reference library used to synthesize
// fallback recommendations when the activity store has too few matches.
// The data ships inside the binary and is loaded once at process start.
package library

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
)

//go:embed activities.json
var rawLibrary []byte

// Load parses the embedded library. Preference and goal fields are
// normalized to lower case so lookups match the recommendation pipeline.
func Load() ([]models.LibraryEntry, error) {
	var entries []models.LibraryEntry
	if err := json.Unmarshal(rawLibrary, &entries); err != nil {
		return nil, fmt.Errorf("parse embedded activity library: %w", err)
	}
	for i := range entries {
		entries[i].Preference = strings.ToLower(strings.TrimSpace(entries[i].Preference))
		entries[i].Goal = strings.ToLower(strings.TrimSpace(entries[i].Goal))
	}
	return entries, nil
}
