// Package prefs loads user preferences for the line editor from an HCL or
// YAML file.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gv "github.com/hashicorp/go-version"
	"github.com/hashicorp/go-multierror"

	"github.com/flowave-io/lineinput/internal/history"
	"github.com/flowave-io/lineinput/pkg/log"
)

// EditMode selects the key binding scheme.
type EditMode int

const (
	Emacs EditMode = iota
	Vi
)

func (m EditMode) String() string {
	if m == Vi {
		return "vi"
	}
	return "emacs"
}

// BellStyle selects how the editor signals an unusable key.
type BellStyle int

const (
	AudibleBell BellStyle = iota
	VisualBell
	NoBell
)

func (b BellStyle) String() string {
	switch b {
	case VisualBell:
		return "visual"
	case NoBell:
		return "none"
	}
	return "audible"
}

// Preferences are the user-tunable settings.
type Preferences struct {
	EditMode                   EditMode
	BellStyle                  BellStyle
	MaxHistorySize             int // 0 means unlimited
	HistoryDuplicates          history.Duplicates
	ListCompletionsImmediately bool
}

// Defaults returns the settings used when no file overrides them.
func Defaults() Preferences {
	return Preferences{
		EditMode:                   Emacs,
		BellStyle:                  AudibleBell,
		MaxHistorySize:             100,
		HistoryDuplicates:          history.AlwaysAdd,
		ListCompletionsImmediately: true,
	}
}

// FormatVersion is the newest preferences format this package understands.
const FormatVersion = "1.0"

// DefaultPath returns the per-user preferences file, ~/.lineinput.hcl.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lineinput.hcl")
}

// Load reads the file at path. A missing file yields the defaults silently.
// Unreadable files and malformed entries are logged and skipped so that a
// bad preferences file never prevents input.
func Load(path string) Preferences {
	if path == "" {
		return Defaults()
	}
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults()
	}
	if err != nil {
		log.Warn("cannot read preferences", "path", path, "err", err)
		return Defaults()
	}
	p, err := Parse(path, src)
	if err != nil {
		log.Warn("ignoring invalid preferences", "path", path, "err", err)
	}
	return p
}

// Parse decodes src, choosing the syntax from the file extension: .yaml and
// .yml are YAML, anything else HCL. It returns the defaults overlaid with
// every valid setting, together with an error describing the invalid ones.
func Parse(name string, src []byte) (Preferences, error) {
	var (
		raw map[string]any
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		raw, err = decodeYAML(src)
	default:
		raw, err = decodeHCL(name, src)
	}
	p := Defaults()
	if raw == nil {
		return p, err
	}
	var merr *multierror.Error
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := p.apply(raw); err != nil {
		merr = multierror.Append(merr, err)
	}
	return p, merr.ErrorOrNil()
}

// normalize maps edit_mode, edit-mode and editMode to the same key.
func normalize(key string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(key))
}

func (p *Preferences) apply(raw map[string]any) error {
	var merr *multierror.Error
	for key, v := range raw {
		if err := p.set(normalize(key), v); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", key, err))
		}
	}
	return merr.ErrorOrNil()
}

func (p *Preferences) set(key string, v any) error {
	switch key {
	case "formatversion":
		return checkVersion(v)
	case "editmode":
		s, err := word(v)
		if err != nil {
			return err
		}
		switch s {
		case "emacs":
			p.EditMode = Emacs
		case "vi", "vim":
			p.EditMode = Vi
		default:
			return fmt.Errorf("unknown edit mode %q", s)
		}
	case "bellstyle":
		s, err := word(v)
		if err != nil {
			return err
		}
		switch s {
		case "audible", "audiblebell":
			p.BellStyle = AudibleBell
		case "visual", "visualbell":
			p.BellStyle = VisualBell
		case "none", "nobell", "off":
			p.BellStyle = NoBell
		default:
			return fmt.Errorf("unknown bell style %q", s)
		}
	case "maxhistorysize":
		n, err := size(v)
		if err != nil {
			return err
		}
		p.MaxHistorySize = n
	case "historyduplicates":
		s, err := word(v)
		if err != nil {
			return err
		}
		switch s {
		case "always", "alwaysadd":
			p.HistoryDuplicates = history.AlwaysAdd
		case "ignoreconsecutive":
			p.HistoryDuplicates = history.IgnoreConsecutive
		case "ignoreall":
			p.HistoryDuplicates = history.IgnoreAll
		default:
			return fmt.Errorf("unknown duplicates policy %q", s)
		}
	case "listcompletionsimmediately":
		b, err := boolean(v)
		if err != nil {
			return err
		}
		p.ListCompletionsImmediately = b
	default:
		return errors.New("unknown preference")
	}
	return nil
}

func checkVersion(v any) error {
	s := fmt.Sprint(v)
	got, err := gv.NewVersion(s)
	if err != nil {
		return fmt.Errorf("invalid format version %q: %w", s, err)
	}
	if gv.Must(gv.NewVersion(FormatVersion)).LessThan(got) {
		log.Warn("preferences written for a newer format", "version", got.String(), "supported", FormatVersion)
	}
	return nil
}

func word(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", v)
	}
	return normalize(strings.TrimSpace(s)), nil
}

func size(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("negative size %d", n)
		}
		return n, nil
	case int64:
		return size(int(n))
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("size %v is not whole", n)
		}
		return size(int(n))
	case string:
		switch normalize(n) {
		case "nothing", "unlimited", "none":
			return 0, nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("invalid size %q", n)
		}
		return size(i)
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func boolean(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(strings.ToLower(strings.TrimSpace(b)))
	}
	return false, fmt.Errorf("expected a boolean, got %T", v)
}
