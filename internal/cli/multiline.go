package cli

import "strings"

// needsMore reports whether s is an unfinished statement: it ends in a
// backslash, or has brackets or a double-quoted string left open.
func needsMore(s string) bool {
	if strings.HasSuffix(strings.TrimRight(s, " \t"), "\\") {
		return true
	}
	depth := 0
	inString, escape := false, false
	for _, r := range s {
		if inString {
			switch {
			case escape:
				escape = false
			case r == '\\':
				escape = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0 || inString
}

// joinContinued appends next to a statement being continued. A trailing
// backslash is a line join and is dropped.
func joinContinued(stmt, next string) string {
	if stmt == "" {
		return next
	}
	trimmed := strings.TrimRight(stmt, " \t")
	if strings.HasSuffix(trimmed, "\\") {
		return strings.TrimSuffix(trimmed, "\\") + next
	}
	return stmt + "\n" + next
}

// flattenForHistory compacts a multi-line statement into one history line:
// lines are trimmed, empty ones dropped, the rest joined by a space, and
// spaces just inside brackets removed.
func flattenForHistory(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	var parts []string
	for _, p := range strings.Split(s, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	joined := strings.Join(parts, " ")

	var b strings.Builder
	runes := []rune(joined)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == ' ' {
			prev := i > 0 && strings.ContainsRune("([{", runes[i-1])
			next := i+1 < len(runes) && strings.ContainsRune(")]}", runes[i+1])
			if prev || next {
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
