package complete

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Filename completes paths relative to Dir, or to the working directory when
// Dir is empty. A leading "~/" is resolved against the home directory.
type Filename struct {
	Dir string
}

const filenameBreaks = " \t\"'`"

func (f Filename) Complete(left, _ string) (Result, error) {
	word := lastWord(left, filenameBreaks)
	res := Result{Replace: utf8.RuneCountInString(word)}

	typedDir, base := "", word
	if i := strings.LastIndexByte(word, '/'); i >= 0 {
		typedDir, base = word[:i+1], word[i+1:]
	}
	dir := f.resolve(typedDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		// unreadable directories simply yield nothing
		return res, nil
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		c := Candidate{Replacement: typedDir + name, Display: name, Finished: true}
		if isDir(dir, e) {
			c.Replacement += "/"
			c.Display += "/"
			c.Finished = false
		}
		res.Candidates = append(res.Candidates, c)
	}
	return res, nil
}

func (f Filename) resolve(typed string) string {
	switch {
	case typed == "":
		if f.Dir == "" {
			return "."
		}
		return f.Dir
	case strings.HasPrefix(typed, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, typed[2:])
		}
	case filepath.IsAbs(typed):
		return typed
	}
	return filepath.Join(f.Dir, typed)
}

func isDir(dir string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.IsDir()
}
