// Package history stores submitted input lines and lets an editing session
// walk and search them.
package history

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-safetemp"
)

// Duplicates selects what Push does with a line already in the history.
type Duplicates int

const (
	AlwaysAdd Duplicates = iota
	IgnoreConsecutive
	IgnoreAll
)

func (d Duplicates) String() string {
	switch d {
	case IgnoreConsecutive:
		return "ignore-consecutive"
	case IgnoreAll:
		return "ignore-all"
	}
	return "always"
}

// History is an ordered list of submitted lines, oldest first.
type History struct {
	entries []string
	max     int // 0 means unlimited
	dups    Duplicates
}

// New returns an empty history keeping at most max entries (0 = unlimited).
func New(max int, dups Duplicates) *History {
	return &History{max: max, dups: dups}
}

// SetPolicy changes the size cap and duplicate handling for later pushes.
// Existing entries beyond the new cap are dropped, oldest first.
func (h *History) SetPolicy(max int, dups Duplicates) {
	h.max, h.dups = max, dups
	h.trim()
}

// Push appends line. Blank lines are never stored. It reports whether the
// history changed.
func (h *History) Push(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	switch h.dups {
	case IgnoreConsecutive:
		if n := len(h.entries); n > 0 && h.entries[n-1] == line {
			return false
		}
	case IgnoreAll:
		for i, e := range h.entries {
			if e == line {
				h.entries = append(h.entries[:i], h.entries[i+1:]...)
				break
			}
		}
	}
	h.entries = append(h.entries, line)
	h.trim()
	return true
}

func (h *History) trim() {
	if h.max > 0 && len(h.entries) > h.max {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.max:]...)
	}
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Last returns the newest entry.
func (h *History) Last() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

// Load appends the entries stored at path. A missing file is not an error.
func (h *History) Load(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		h.Push(unescape(strings.TrimRight(sc.Text(), "\r")))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan history: %w", err)
	}
	return nil
}

// Save writes all entries to path, one per line. The file is written in a
// temporary directory next to path and renamed into place.
func (h *History) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmpDir, cleanup, err := safetemp.Dir(dir, "history-")
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	defer func() { _ = cleanup.Close() }()
	// safetemp only names the directory; it is not created.
	if err := os.MkdirAll(tmpDir, 0o700); err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}

	var buf bytes.Buffer
	for _, e := range h.entries {
		buf.WriteString(escape(e))
		buf.WriteByte('\n')
	}
	tmp := filepath.Join(tmpDir, filepath.Base(path))
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize history: %w", err)
	}
	return nil
}

// Entries are single lines except for text that arrived with embedded
// newlines (pasted input); those are stored escaped.
var (
	escaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n")
)

func escape(s string) string   { return escaper.Replace(s) }
func unescape(s string) string { return unescaper.Replace(s) }
