// Package filter narrows a ticket list the way the dashboard filters do.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
)

// Criteria selects tickets. Zero-valued criteria match everything.
type Criteria struct {
	// From and To bound the creation day, both inclusive. Only their
	// calendar date matters.
	From *time.Time
	To   *time.Time

	Client   string
	Author   string
	Priority string
	Status   string
	Assignee string

	// Location is the calendar for date bounds and timestamp parsing.
	// Nil means time.Local.
	Location *time.Location
}

// IsZero reports whether the criteria match every ticket.
func (c Criteria) IsZero() bool {
	return c.From == nil && c.To == nil &&
		c.Client == "" && c.Author == "" && c.Priority == "" &&
		c.Status == "" && c.Assignee == ""
}

func (c Criteria) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Matches reports whether a single ticket satisfies the criteria.
// A ticket whose creation time cannot be parsed passes the date bounds.
func (c Criteria) Matches(t domain.Ticket) bool {
	loc := c.location()

	if c.From != nil || c.To != nil {
		if created, ok := t.Created(loc); ok {
			if c.From != nil && created.Before(startOfDay(*c.From, loc)) {
				return false
			}
			if c.To != nil && created.After(endOfDay(*c.To, loc)) {
				return false
			}
		}
	}

	if c.Client != "" && t.Client != c.Client {
		return false
	}
	if c.Author != "" && t.Author != c.Author {
		return false
	}
	if c.Priority != "" && t.Priority != c.Priority {
		return false
	}
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	if c.Assignee != "" && t.Assignee != c.Assignee {
		return false
	}
	return true
}

// Apply returns the tickets matching c, in their original order.
func Apply(tickets []domain.Ticket, c Criteria) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// DistinctValues lists the non-empty values of field, sorted and unique.
func DistinctValues(tickets []domain.Ticket, field domain.Field) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range tickets {
		v := t.Value(field)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Options collects the values each dashboard filter can be set to.
func Options(tickets []domain.Ticket) domain.FilterOptions {
	return domain.FilterOptions{
		Clients:    DistinctValues(tickets, domain.FieldClient),
		Authors:    DistinctValues(tickets, domain.FieldAuthor),
		Priorities: DistinctValues(tickets, domain.FieldPriority),
		Statuses:   DistinctValues(tickets, domain.FieldStatus),
		Assignees:  DistinctValues(tickets, domain.FieldAssignee),
	}
}

// CreationBounds returns the earliest and latest parseable creation times.
func CreationBounds(tickets []domain.Ticket, loc *time.Location) (earliest, latest time.Time, ok bool) {
	for _, t := range tickets {
		created, parsed := t.Created(loc)
		if !parsed {
			continue
		}
		if !ok || created.Before(earliest) {
			earliest = created
		}
		if !ok || created.After(latest) {
			latest = created
		}
		ok = true
	}
	return earliest, latest, ok
}

// SortByCreatedDesc returns a copy of tickets, newest first. Tickets without
// a parseable creation time sort last; equal times keep their input order.
func SortByCreatedDesc(tickets []domain.Ticket, loc *time.Location) []domain.Ticket {
	type keyed struct {
		ticket  domain.Ticket
		created time.Time
		dated   bool
	}

	items := make([]keyed, len(tickets))
	for i, t := range tickets {
		created, ok := t.Created(loc)
		items[i] = keyed{ticket: t, created: created, dated: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.dated != b.dated {
			return a.dated
		}
		return a.created.After(b.created)
	})

	out := make([]domain.Ticket, len(items))
	for i, it := range items {
		out[i] = it.ticket
	}
	return out
}

// Segment is a drill-down into one bar of a breakdown.
type Segment struct {
	Field domain.Field
	Value string
}

// ApplySegment keeps the tickets that fall in the segment's bar: their
// group label (trimmed value, or domain.NoValueLabel when blank) equals the
// segment value. A zero Segment keeps everything.
func ApplySegment(tickets []domain.Ticket, s Segment) []domain.Ticket {
	if s.Field == "" {
		return tickets
	}
	want := strings.TrimSpace(s.Value)
	out := make([]domain.Ticket, 0)
	for _, t := range tickets {
		if t.GroupLabel(s.Field) == want {
			out = append(out, t)
		}
	}
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}
