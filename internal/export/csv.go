package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/focusbits/internal/store"
)

func ToCSV(sessions []store.FocusSession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Day", "Kind", "Label", "Start", "End", "Planned (s)", "Spent", "Outcome"}); err != nil {
		return err
	}

	for _, s := range sessions {
		endStr := ""
		if s.EndedAt != nil {
			endStr = s.EndedAt.Local().Format(time.RFC3339)
		}
		row := []string{
			s.ID,
			s.Day,
			s.Kind,
			s.Label,
			s.StartedAt.Local().Format(time.RFC3339),
			endStr,
			strconv.FormatInt(s.PlannedSeconds, 10),
			formatDuration(int64(s.Duration() / time.Second)),
			s.Outcome,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
