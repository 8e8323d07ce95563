// Package history persists REPL input lines to an append-only file in the XDG
// state dir so a later session can show what was run before.
package history

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"cypherline/cli/internal/xdg"
)

const fileName = "history"

// File is an append-only history log. A nil *File is a valid no-op receiver,
// so callers need not branch when history is unavailable.
type File struct {
	f *os.File
}

// Open opens (creating if needed) the history file in the state dir.
func Open() (*File, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

// Append records one input line. Blank lines and REPL commands starting with
// a backslash are skipped. Embedded newlines are flattened so each history
// entry stays one line.
func (h *File) Append(line string) error {
	if h == nil {
		return nil
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, `\`) {
		return nil
	}
	line = strings.ReplaceAll(line, "\n", " ")
	_, err := h.f.WriteString(line + "\n")
	return err
}

// Close closes the underlying file.
func (h *File) Close() error {
	if h == nil {
		return nil
	}
	return h.f.Close()
}

// Tail returns up to n most recent entries, oldest first.
func Tail(n int) ([]string, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
