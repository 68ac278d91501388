package domain

import (
	"strings"
	"time"
)

// NoValueLabel is the group label used for tickets whose field is blank.
const NoValueLabel = "(sin valor)"

// Column positions in the exported ticket sheet. The layout is fixed by
// index; header labels are only ever checked, never used for binding.
const (
	ColumnID = iota
	ColumnClient
	ColumnTitle
	ColumnType
	ColumnAuthor
	ColumnAssignee
	ColumnPriority
	ColumnStatus
	ColumnCreatedAt
	ColumnModifiedAt

	// ColumnCount is the number of columns a ticket row carries.
	ColumnCount
)

// ColumnLabels are the header labels the export is expected to carry,
// indexed by column position.
var ColumnLabels = [ColumnCount]string{
	"ID",
	"Cliente",
	"Título",
	"Tipo",
	"Autor",
	"Asignado",
	"Prioridad",
	"Estado",
	"Creación",
	"Modificación",
}

// Ticket is one support-desk case parsed from the source table.
// Timestamps are kept as the text found in the export.
type Ticket struct {
	ID         int64  `json:"id" yaml:"id"`
	Client     string `json:"client" yaml:"client"`
	Title      string `json:"title" yaml:"title"`
	Type       string `json:"type" yaml:"type"`
	Author     string `json:"author" yaml:"author"`
	Assignee   string `json:"assignee" yaml:"assignee"`
	Priority   string `json:"priority" yaml:"priority"`
	Status     string `json:"status" yaml:"status"`
	CreatedAt  string `json:"createdAt" yaml:"createdAt"`
	ModifiedAt string `json:"modifiedAt" yaml:"modifiedAt"`
}

// Field identifies a text column of a Ticket that can be grouped or filtered on.
type Field string

const (
	FieldClient     Field = "client"
	FieldTitle      Field = "title"
	FieldType       Field = "type"
	FieldAuthor     Field = "author"
	FieldAssignee   Field = "assignee"
	FieldPriority   Field = "priority"
	FieldStatus     Field = "status"
	FieldCreatedAt  Field = "createdAt"
	FieldModifiedAt Field = "modifiedAt"
)

// Fields lists every groupable field in column order.
var Fields = []Field{
	FieldClient,
	FieldTitle,
	FieldType,
	FieldAuthor,
	FieldAssignee,
	FieldPriority,
	FieldStatus,
	FieldCreatedAt,
	FieldModifiedAt,
}

// IsValid reports whether f names a known ticket field.
func (f Field) IsValid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Label returns the column header the field is exported under.
func (f Field) Label() string {
	switch f {
	case FieldClient:
		return ColumnLabels[ColumnClient]
	case FieldTitle:
		return ColumnLabels[ColumnTitle]
	case FieldType:
		return ColumnLabels[ColumnType]
	case FieldAuthor:
		return ColumnLabels[ColumnAuthor]
	case FieldAssignee:
		return ColumnLabels[ColumnAssignee]
	case FieldPriority:
		return ColumnLabels[ColumnPriority]
	case FieldStatus:
		return ColumnLabels[ColumnStatus]
	case FieldCreatedAt:
		return ColumnLabels[ColumnCreatedAt]
	case FieldModifiedAt:
		return ColumnLabels[ColumnModifiedAt]
	}
	return string(f)
}

// Value returns the raw text of the given field. Unknown fields read as "".
func (t Ticket) Value(f Field) string {
	switch f {
	case FieldClient:
		return t.Client
	case FieldTitle:
		return t.Title
	case FieldType:
		return t.Type
	case FieldAuthor:
		return t.Author
	case FieldAssignee:
		return t.Assignee
	case FieldPriority:
		return t.Priority
	case FieldStatus:
		return t.Status
	case FieldCreatedAt:
		return t.CreatedAt
	case FieldModifiedAt:
		return t.ModifiedAt
	}
	return ""
}

// GroupLabel returns the trimmed field value, or NoValueLabel when blank.
func (t Ticket) GroupLabel(f Field) string {
	v := strings.TrimSpace(t.Value(f))
	if v == "" {
		return NoValueLabel
	}
	return v
}

// DateField selects one of the two timestamp columns.
type DateField string

const (
	DateCreated  DateField = "createdAt"
	DateModified DateField = "modifiedAt"
)

// IsValid reports whether d names a timestamp column.
func (d DateField) IsValid() bool {
	return d == DateCreated || d == DateModified
}

// Raw returns the timestamp text stored for the given column.
func (t Ticket) Raw(d DateField) string {
	if d == DateModified {
		return t.ModifiedAt
	}
	return t.CreatedAt
}

// Time parses the given timestamp column in loc.
func (t Ticket) Time(d DateField, loc *time.Location) (time.Time, bool) {
	return ParseTimestamp(t.Raw(d), loc)
}

// Created parses the creation timestamp in loc.
func (t Ticket) Created(loc *time.Location) (time.Time, bool) {
	return ParseTimestamp(t.CreatedAt, loc)
}

// Modified parses the last-modification timestamp in loc.
func (t Ticket) Modified(loc *time.Location) (time.Time, bool) {
	return ParseTimestamp(t.ModifiedAt, loc)
}

// Row serializes the ticket back into the fixed export column order.
func (t Ticket) Row() []any {
	return []any{
		t.ID,
		t.Client,
		t.Title,
		t.Type,
		t.Author,
		t.Assignee,
		t.Priority,
		t.Status,
		t.CreatedAt,
		t.ModifiedAt,
	}
}
