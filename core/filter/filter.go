// Package filter decides which chronology entries the normalizer may touch
// and which ones are written back.
package filter

import (
	"context"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/chronoform/core"
	"github.com/gaurav-prasanna/chronoform/internal/logger"
)

// Filter holds the exclusion rules for one run.
type Filter struct {
	excludedTypes   map[string]bool
	excludedIDs     map[string]bool
	skipHandwritten bool
}

// New creates a Filter. Document types compare case-insensitively.
func New(excludedTypes []string, skipHandwritten bool, excludedIDs []string) *Filter {
	f := &Filter{
		excludedTypes:   make(map[string]bool, len(excludedTypes)),
		excludedIDs:     make(map[string]bool, len(excludedIDs)),
		skipHandwritten: skipHandwritten,
	}
	for _, t := range excludedTypes {
		if t = normalizeType(t); t != "" {
			f.excludedTypes[t] = true
		}
	}
	for _, id := range excludedIDs {
		if id = strings.TrimSpace(id); id != "" {
			f.excludedIDs[id] = true
		}
	}
	return f
}

// Allow reports whether the entry may be normalized.
func (f *Filter) Allow(e core.Entry) bool {
	if f == nil {
		return true
	}
	if f.excludedTypes[normalizeType(e.DocumentType)] {
		return false
	}
	if f.skipHandwritten && bool(e.Handwritten) {
		return false
	}
	return true
}

// ForWriteBack drops entries whose id is on the exclusion list.
func (f *Filter) ForWriteBack(ctx context.Context, entries []core.Entry) []core.Entry {
	if f == nil || len(f.excludedIDs) == 0 {
		return entries
	}
	out := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if f.excludedIDs[strconv.FormatInt(e.ID, 10)] {
			continue
		}
		out = append(out, e)
	}
	logger.FromContext(ctx).Info("Excluded entries by id", "excluded", len(entries)-len(out))
	return out
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
