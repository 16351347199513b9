package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focusbits/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID         string `json:"id"`
	Day        string `json:"day"`
	Kind       string `json:"kind"`
	Label      string `json:"label,omitempty"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at,omitempty"`
	PlannedSec int64  `json:"planned_seconds"`
	SpentSec   int64  `json:"spent_seconds"`
	Spent      string `json:"spent"`
	Outcome    string `json:"outcome"`
}

func ToJSON(sessions []store.FocusSession, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
	}

	for _, s := range sessions {
		endStr := ""
		if s.EndedAt != nil {
			endStr = s.EndedAt.Local().Format(time.RFC3339)
		}
		spent := int64(s.Duration() / time.Second)
		export.Sessions = append(export.Sessions, jsonSession{
			ID:         s.ID,
			Day:        s.Day,
			Kind:       s.Kind,
			Label:      s.Label,
			StartedAt:  s.StartedAt.Local().Format(time.RFC3339),
			EndedAt:    endStr,
			PlannedSec: s.PlannedSeconds,
			SpentSec:   spent,
			Spent:      formatDuration(spent),
			Outcome:    s.Outcome,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
