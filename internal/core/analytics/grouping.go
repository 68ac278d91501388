package analytics

import (
	"sort"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
)

// PriorityUrgent is the priority label of the urgent card.
const PriorityUrgent = "Urgente"

// GroupBy counts tickets per trimmed value of field. Blank values are
// counted under domain.NoValueLabel.
func (e *Engine) GroupBy(tickets []domain.Ticket, field domain.Field) map[string]int {
	counts := make(map[string]int)
	for _, t := range tickets {
		counts[t.GroupLabel(field)]++
	}
	return counts
}

// DistinctCount is the number of distinct group labels of field. Blank
// values count as one label.
func (e *Engine) DistinctCount(tickets []domain.Ticket, field domain.Field) int {
	return len(e.GroupBy(tickets, field))
}

// UrgentCount counts tickets whose priority is exactly PriorityUrgent.
func (e *Engine) UrgentCount(tickets []domain.Ticket) int {
	n := 0
	for _, t := range tickets {
		if t.Priority == PriorityUrgent {
			n++
		}
	}
	return n
}

// SortByCount orders counts by descending value, breaking ties by
// ascending name so the result does not depend on map iteration order.
// A positive limit keeps only the first limit entries.
func SortByCount(counts map[string]int, limit int) []domain.NamedCount {
	out := make([]domain.NamedCount, 0, len(counts))
	for name, value := range counts {
		out = append(out, domain.NamedCount{Name: name, Value: value})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ByMonth counts tickets per "YYYY-MM" of the given timestamp, in the
// engine's calendar. Tickets whose timestamp is empty or unparseable are
// skipped. The series is sparse and sorted by month.
func (e *Engine) ByMonth(tickets []domain.Ticket, dateField domain.DateField) []domain.NamedCount {
	loc := e.location()

	counts := make(map[string]int)
	for _, t := range tickets {
		at, ok := t.Time(dateField, loc)
		if !ok {
			continue
		}
		counts[at.In(loc).Format("2006-01")]++
	}

	out := make([]domain.NamedCount, 0, len(counts))
	for name, value := range counts {
		out = append(out, domain.NamedCount{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
