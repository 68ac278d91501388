package analytics

import (
	"math"
	"time"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
)

// ResolutionHours is the signed time from creation to last modification.
// It is absent unless both timestamps parse. A modification earlier than
// the creation yields a negative value; it is passed through unchanged.
func (e *Engine) ResolutionHours(t domain.Ticket) (float64, bool) {
	loc := e.location()
	created, ok := t.Created(loc)
	if !ok {
		return 0, false
	}
	modified, ok := t.Modified(loc)
	if !ok {
		return 0, false
	}
	return modified.Sub(created).Hours(), true
}

// AverageTTRHours is the mean resolution time of closed tickets. Closed
// tickets without usable timestamps are left out of the mean entirely.
func (e *Engine) AverageTTRHours(tickets []domain.Ticket) (float64, bool) {
	var (
		sum float64
		n   int
	)
	for _, t := range e.ClosedTickets(tickets) {
		if h, ok := e.ResolutionHours(t); ok {
			sum += h
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// SLACompliancePct is the rounded percentage of closed tickets resolved
// within targetHours. Closed tickets without usable timestamps count as
// outside the target. Absent when there are no closed tickets.
func (e *Engine) SLACompliancePct(tickets []domain.Ticket, targetHours float64) (int, bool) {
	closed := e.ClosedTickets(tickets)
	if len(closed) == 0 {
		return 0, false
	}

	within := 0
	for _, t := range closed {
		if h, ok := e.ResolutionHours(t); ok && h <= targetHours {
			within++
		}
	}
	return int(math.Round(float64(within) / float64(len(closed)) * 100)), true
}

// DaysOpen is the age of a ticket at now, in days. An empty or
// unparseable creation time gives an age of zero.
func (e *Engine) DaysOpen(t domain.Ticket, now time.Time) float64 {
	created, ok := t.Created(e.location())
	if !ok {
		return 0
	}
	return now.Sub(created).Hours() / 24
}

// AverageOpenAgeDays is the mean DaysOpen over the open tickets, absent
// when none are open.
func (e *Engine) AverageOpenAgeDays(tickets []domain.Ticket, now time.Time) (float64, bool) {
	open := e.OpenTickets(tickets)
	if len(open) == 0 {
		return 0, false
	}

	var sum float64
	for _, t := range open {
		sum += e.DaysOpen(t, now)
	}
	return sum / float64(len(open)), true
}

// OpenByClient counts open tickets per client, largest first.
func (e *Engine) OpenByClient(tickets []domain.Ticket) []domain.NamedCount {
	return SortByCount(e.GroupBy(e.OpenTickets(tickets), domain.FieldClient), 0)
}
