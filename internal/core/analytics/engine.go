// Package analytics derives dashboard aggregates from parsed tickets.
//
// Every function is a pure transform over a caller-owned slice. Inputs are
// never modified, results are freshly allocated, and malformed data
// degrades to an "absent" result (ok == false) instead of an error.
package analytics

import (
	"time"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
)

// Engine holds the classification rules and calendar used by the metrics.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	classifier *Classifier
	loc        *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithClassifier replaces the default status classifier.
func WithClassifier(c *Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithLocation sets the calendar timestamps without a zone are read in
// and months are bucketed by. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.loc = loc
	}
}

// New creates an Engine with the baseline status sets.
func New(opts ...Option) *Engine {
	e := &Engine{classifier: NewClassifier()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Default uses exact status matching and the local calendar.
var Default = New()

func (e *Engine) location() *time.Location {
	if e.loc == nil {
		return time.Local
	}
	return e.loc
}

// Classifier returns the status classifier in use.
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// GroupBy counts tickets per field value using Default.
func GroupBy(tickets []domain.Ticket, field domain.Field) map[string]int {
	return Default.GroupBy(tickets, field)
}

// ByMonth buckets tickets by the month of dateField using Default.
func ByMonth(tickets []domain.Ticket, dateField domain.DateField) []domain.NamedCount {
	return Default.ByMonth(tickets, dateField)
}

// DistinctCount counts distinct labels of field using Default.
func DistinctCount(tickets []domain.Ticket, field domain.Field) int {
	return Default.DistinctCount(tickets, field)
}

// UrgentCount counts urgent tickets using Default.
func UrgentCount(tickets []domain.Ticket) int {
	return Default.UrgentCount(tickets)
}

// ClosedTickets keeps the resolved tickets using Default.
func ClosedTickets(tickets []domain.Ticket) []domain.Ticket {
	return Default.ClosedTickets(tickets)
}

// OpenTickets keeps the backlog tickets using Default.
func OpenTickets(tickets []domain.Ticket) []domain.Ticket {
	return Default.OpenTickets(tickets)
}

// ResolutionHours is Default.ResolutionHours.
func ResolutionHours(t domain.Ticket) (float64, bool) {
	return Default.ResolutionHours(t)
}

// AverageTTRHours is the mean resolution time of closed tickets using Default.
func AverageTTRHours(tickets []domain.Ticket) (float64, bool) {
	return Default.AverageTTRHours(tickets)
}

// SLACompliancePct is Default.SLACompliancePct.
func SLACompliancePct(tickets []domain.Ticket, targetHours float64) (int, bool) {
	return Default.SLACompliancePct(tickets, targetHours)
}

// DaysOpen is the age of t at now using Default.
func DaysOpen(t domain.Ticket, now time.Time) float64 {
	return Default.DaysOpen(t, now)
}

// AverageOpenAgeDays is the mean backlog age using Default.
func AverageOpenAgeDays(tickets []domain.Ticket, now time.Time) (float64, bool) {
	return Default.AverageOpenAgeDays(tickets, now)
}

// OpenByClient counts open tickets per client using Default.
func OpenByClient(tickets []domain.Ticket) []domain.NamedCount {
	return Default.OpenByClient(tickets)
}
