package queue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

// State remembers the workbook modification time seen by the last run.
type State struct {
	Path string
}

// Changed reports whether modTime differs from the recorded one. A missing
// state file counts as changed.
func (s State) Changed(modTime time.Time) (bool, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading state file %s: %w", s.Path, err)
	}

	last, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		// An unreadable stamp is treated like no stamp at all.
		return true, nil
	}
	return last != modTime.UnixNano(), nil
}

// Record stores modTime as the last seen modification time.
func (s State) Record(modTime time.Time) error {
	stamp := strconv.FormatInt(modTime.UnixNano(), 10)
	if err := os.WriteFile(s.Path, []byte(stamp), 0644); err != nil {
		return fmt.Errorf("writing state file %s: %w", s.Path, err)
	}
	return nil
}
