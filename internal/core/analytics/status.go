package analytics

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lorrc/service-desk-analytics/internal/core/domain"
)

// Status labels used by the help-desk export.
const (
	StatusResolved = "Resuelto"
	StatusClosed   = "Cerrado"
	StatusRejected = "Rechazado"
)

// ClosedStatuses count as resolved for time-to-resolution and SLA.
var ClosedStatuses = []string{StatusResolved, StatusClosed}

// NotOpenStatuses are left out of the backlog. Rejected tickets are in
// neither set: they have no meaningful resolution time and are not backlog.
var NotOpenStatuses = []string{StatusResolved, StatusClosed, StatusRejected}

// Classifier decides lifecycle state from a status label.
type Classifier struct {
	closed    map[string]struct{}
	notOpen   map[string]struct{}
	normalize bool
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithStatusNormalization makes matching ignore surrounding space, letter
// case and accents ("cerrado", "RESUELTO ", "Rechazádo"). This differs from
// the export's own exact-label semantics and is off by default.
func WithStatusNormalization() ClassifierOption {
	return func(c *Classifier) {
		c.normalize = true
	}
}

// WithStatusSets overrides the closed and not-open label sets.
func WithStatusSets(closed, notOpen []string) ClassifierOption {
	return func(c *Classifier) {
		c.closed = toSet(closed)
		c.notOpen = toSet(notOpen)
	}
}

// NewClassifier builds a classifier over ClosedStatuses and NotOpenStatuses.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		closed:  toSet(ClosedStatuses),
		notOpen: toSet(NotOpenStatuses),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.normalize {
		c.closed = foldSet(c.closed)
		c.notOpen = foldSet(c.notOpen)
	}
	return c
}

// IsClosed reports whether status is in the closed set.
func (c *Classifier) IsClosed(status string) bool {
	_, ok := c.closed[c.key(status)]
	return ok
}

// IsOpen reports whether status is outside the not-open set. Labels the
// classifier has never seen ("Nuevo", "En progreso", "") are open.
func (c *Classifier) IsOpen(status string) bool {
	_, excluded := c.notOpen[c.key(status)]
	return !excluded
}

func (c *Classifier) key(status string) string {
	if c.normalize {
		return foldStatus(status)
	}
	return status
}

// ClosedTickets returns the tickets whose status is in the closed set.
func (e *Engine) ClosedTickets(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0)
	for _, t := range tickets {
		if e.classifier.IsClosed(t.Status) {
			out = append(out, t)
		}
	}
	return out
}

// OpenTickets returns the tickets whose status is not in the not-open set.
func (e *Engine) OpenTickets(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0)
	for _, t := range tickets {
		if e.classifier.IsOpen(t.Status) {
			out = append(out, t)
		}
	}
	return out
}

func toSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

func foldSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for l := range set {
		out[foldStatus(l)] = struct{}{}
	}
	return out
}

// foldStatus trims, strips combining marks and case-folds a label.
// Transformers keep state, so a fresh chain is built per call.
func foldStatus(s string) string {
	s = strings.TrimSpace(s)
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripAccents, s); err == nil {
		s = stripped
	}
	return cases.Fold().String(s)
}
