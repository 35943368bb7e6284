package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Item is the domain model for a task entry.
// Only Completed changes after creation.
type Item struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Filter selects which items a listing shows.
type Filter int

const (
	All Filter = iota
	Completed
	Pending
)

// Filters in the order the TUI cycles through them.
var Filters = []Filter{All, Pending, Completed}

var ErrUnknownFilter = errors.New("unknown filter")

// ParseFilter accepts all, completed (done) and pending (open).
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "completed", "done":
		return Completed, nil
	case "pending", "open":
		return Pending, nil
	}
	return All, fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

func (f Filter) String() string {
	switch f {
	case Completed:
		return "completed"
	case Pending:
		return "pending"
	default:
		return "all"
	}
}

// Match reports whether it belongs in a listing filtered by f.
func (f Filter) Match(it Item) bool {
	switch f {
	case Completed:
		return it.Completed
	case Pending:
		return !it.Completed
	default:
		return true
	}
}

// Next returns the filter after f in Filters, wrapping around.
func (f Filter) Next() Filter {
	for i, v := range Filters {
		if v == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return All
}

// Counts is derived from the item sequence; Pending is always Total-Completed.
type Counts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Count tallies items.
func Count(items []Item) Counts {
	c := Counts{Total: len(items)}
	for _, it := range items {
		if it.Completed {
			c.Completed++
		}
	}
	c.Pending = c.Total - c.Completed
	return c
}
