package edit

import (
	"github.com/flowave-io/lineinput/internal/keys"
)

func startSearch(ret Mode) Action {
	return func(c *Context, s State) Outcome {
		if c.History == nil {
			return bell(s)
		}
		_, inner := countOf(s)
		b := BufferOf(inner)
		return Continue(Change(SearchState{Match: b, Index: -1, Origin: b, Return: ret}), ModeSearch)
	}
}

func searchTable() *Table {
	return &Table{
		Keys: map[keys.Key]Binding{
			keys.Ctrl('r'):             bind(searchOlder),
			keys.Named(keys.Backspace): bind(searchBackspace),
			keys.Ctrl('h'):             bind(searchBackspace),
			keys.Named(keys.Enter):     bind(searchAccept),
			keys.Ctrl('j'):             bind(searchAccept),
			keys.Ctrl('g'):             bind(searchCancel),
			keys.Named(keys.Esc):       bind(searchCancel),
		},
		Default: func(k keys.Key) (Binding, bool) {
			if r, ok := printable(k); ok {
				return bind(searchAppend(r)), true
			}
			return bind(searchExit), true
		},
	}
}

func (s SearchState) find(c *Context, query string, from int) SearchState {
	s.Query = query
	e, idx, off, ok := c.History.Search(query, from)
	if !ok {
		s.Failed = true
		return s
	}
	s.Failed = false
	s.Index = idx
	s.Match = BufferAt(e, off)
	return s
}

func asSearch(s State) (SearchState, bool) {
	ss, ok := s.(SearchState)
	return ss, ok
}

func searchAppend(r rune) Action {
	return func(c *Context, s State) Outcome {
		ss, ok := asSearch(s)
		if !ok {
			return bell(s)
		}
		from := searchFrom
		if ss.Index >= 0 {
			// the current match may still match the longer query
			from = ss.Index + 1
		}
		return stay(ss.find(c, ss.Query+string(r), from))
	}
}

func searchBackspace(c *Context, s State) Outcome {
	ss, ok := asSearch(s)
	if !ok || ss.Query == "" {
		return bell(s)
	}
	q := []rune(ss.Query)
	query := string(q[:len(q)-1])
	if query == "" {
		return stay(SearchState{Match: ss.Origin, Index: -1, Origin: ss.Origin, Return: ss.Return})
	}
	return stay(ss.find(c, query, searchFrom))
}

func searchOlder(c *Context, s State) Outcome {
	ss, ok := asSearch(s)
	if !ok || ss.Query == "" {
		return bell(s)
	}
	from := searchFrom
	if ss.Index >= 0 {
		from = ss.Index
	}
	next := ss.find(c, ss.Query, from)
	if next.Failed {
		return Continue(RingBell(next), ModeSame)
	}
	return stay(next)
}

func (s SearchState) settle(c *Context) Insert {
	if s.Index >= 0 {
		c.History.Jump(s.Index, s.Origin.String())
	}
	return Insert{s.Match}
}

func searchAccept(c *Context, s State) Outcome {
	ss, ok := asSearch(s)
	if !ok {
		return Accept(s)
	}
	return Accept(ss.settle(c))
}

func searchCancel(_ *Context, s State) Outcome {
	ss, ok := asSearch(s)
	if !ok {
		return bell(s)
	}
	return Continue(Change(Insert{ss.Origin}), ss.Return)
}

// searchExit leaves the search with the match as the edited line. The key
// that ended it is not run.
func searchExit(c *Context, s State) Outcome {
	ss, ok := asSearch(s)
	if !ok {
		return bell(s)
	}
	return Continue(Change(ss.settle(c)), ss.Return)
}
