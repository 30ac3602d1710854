// Package complete provides tab-completion sources for the line editor.
package complete

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Candidate is one possible completion.
type Candidate struct {
	// Replacement is inserted in place of the completed word.
	Replacement string
	// Display is shown when listing alternatives.
	Display string
	// Finished candidates get a trailing space when they are the only match.
	Finished bool
}

// Result describes a completion attempt.
type Result struct {
	// Replace is the number of runes before the cursor that the
	// candidates replace.
	Replace    int
	Candidates []Candidate
}

// Provider completes the word to the left of the cursor. left and right are
// the buffer halves around it.
type Provider interface {
	Complete(left, right string) (Result, error)
}

// Func adapts a function to Provider.
type Func func(left, right string) (Result, error)

func (f Func) Complete(left, right string) (Result, error) { return f(left, right) }

// None never offers candidates.
var None Provider = Func(func(string, string) (Result, error) { return Result{}, nil })

// Words completes whitespace-separated words from a fixed vocabulary.
func Words(words ...string) Provider {
	vocab := append([]string(nil), words...)
	sort.Strings(vocab)
	return Func(func(left, _ string) (Result, error) {
		word := lastWord(left, " \t")
		res := Result{Replace: utf8.RuneCountInString(word)}
		for _, w := range vocab {
			if strings.HasPrefix(w, word) {
				res.Candidates = append(res.Candidates, Candidate{Replacement: w, Display: w, Finished: true})
			}
		}
		return res, nil
	})
}

// CommonPrefix returns the longest prefix shared by every candidate's
// replacement.
func CommonPrefix(cs []Candidate) string {
	if len(cs) == 0 {
		return ""
	}
	prefix := cs[0].Replacement
	for _, c := range cs[1:] {
		for !strings.HasPrefix(c.Replacement, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}

func lastWord(s, breaks string) string {
	if i := strings.LastIndexAny(s, breaks); i >= 0 {
		return s[i+1:]
	}
	return s
}
