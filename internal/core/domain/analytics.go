package domain

import "time"

// NamedCount is a single bar of a breakdown: a label and how many tickets carry it.
type NamedCount struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// ParseStats summarizes what the record parser did with a grid.
type ParseStats struct {
	DataRows          int `json:"dataRows" yaml:"dataRows"`
	Parsed            int `json:"parsed" yaml:"parsed"`
	SkippedBlank      int `json:"skippedBlank" yaml:"skippedBlank"`
	RejectedInvalidID int `json:"rejectedInvalidId" yaml:"rejectedInvalidId"`
}

// HeaderWarning reports a header cell that does not carry the expected label.
type HeaderWarning struct {
	Column   int    `json:"column" yaml:"column"`
	Expected string `json:"expected" yaml:"expected"`
	Found    string `json:"found" yaml:"found"`
}

// FilterOptions are the distinct values a dashboard can offer as filters.
type FilterOptions struct {
	Clients    []string `json:"clients" yaml:"clients"`
	Authors    []string `json:"authors" yaml:"authors"`
	Priorities []string `json:"priorities" yaml:"priorities"`
	Statuses   []string `json:"statuses" yaml:"statuses"`
	Assignees  []string `json:"assignees" yaml:"assignees"`
}

// DateBounds is the earliest and latest creation time in a ticket list.
type DateBounds struct {
	From time.Time `json:"from" yaml:"from"`
	To   time.Time `json:"to" yaml:"to"`
}

// Overview is the full set of dashboard aggregates for one filtered ticket list.
// Nil scalars mean there was no data to compute them from.
type Overview struct {
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`

	TotalTickets  int `json:"totalTickets" yaml:"totalTickets"`
	ClosedTickets int `json:"closedTickets" yaml:"closedTickets"`
	OpenTickets   int `json:"openTickets" yaml:"openTickets"`

	// UrgentTickets counts priority "Urgente"; DistinctClients counts a
	// blank client as one value.
	UrgentTickets   int `json:"urgentTickets" yaml:"urgentTickets"`
	DistinctClients int `json:"distinctClients" yaml:"distinctClients"`

	TTRHours         *float64 `json:"ttrHours" yaml:"ttrHours"`
	SLATargetHours   float64  `json:"slaTargetHours" yaml:"slaTargetHours"`
	SLACompliancePct *int     `json:"slaCompliancePct" yaml:"slaCompliancePct"`
	AvgOpenAgeDays   *float64 `json:"avgOpenAgeDays" yaml:"avgOpenAgeDays"`

	ByClient       []NamedCount `json:"byClient" yaml:"byClient"`
	ByPriority     []NamedCount `json:"byPriority" yaml:"byPriority"`
	ByStatus       []NamedCount `json:"byStatus" yaml:"byStatus"`
	ByType         []NamedCount `json:"byType" yaml:"byType"`
	ByAssignee     []NamedCount `json:"byAssignee" yaml:"byAssignee"`
	CreatedByMonth []NamedCount `json:"createdByMonth" yaml:"createdByMonth"`
	OpenByClient   []NamedCount `json:"openByClient" yaml:"openByClient"`

	Filters        FilterOptions   `json:"filters" yaml:"filters"`
	CreationBounds *DateBounds     `json:"creationBounds" yaml:"creationBounds"`
	Parse          ParseStats      `json:"parse" yaml:"parse"`
	HeaderWarnings []HeaderWarning `json:"headerWarnings,omitempty" yaml:"headerWarnings,omitempty"`

	Tickets []Ticket `json:"tickets,omitempty" yaml:"tickets,omitempty"`
}
