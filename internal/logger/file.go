package logger

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultMaxLines is how many lines TrimFile keeps in the run log.
const DefaultMaxLines = 5000

// OpenRunLog opens path for appending, creating its directory if needed.
func OpenRunLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening run log %s: %w", path, err)
	}
	return f, nil
}

// TrimFile keeps only the last maxLines lines of path. It reports whether
// the file was rewritten.
func TrimFile(path string, maxLines int) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	var lines [][]byte
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, append([]byte(nil), sc.Bytes()...))
	}
	if err := sc.Err(); err != nil {
		return false, fmt.Errorf("scanning %s: %w", path, err)
	}
	if len(lines) <= maxLines {
		return false, nil
	}

	kept := bytes.Join(lines[len(lines)-maxLines:], []byte("\n"))
	kept = append(kept, '\n')
	if err := os.WriteFile(path, kept, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
