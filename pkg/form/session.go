// Package form implements the generated add/edit form: per-field and
// whole-form validation over a column configuration, with touched tracking
// that gates when errors are shown.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/store"
)

// State tracks one form session's lifecycle.
type State int

const (
	Closed State = iota
	Initializing
	Editing
	Validating
	Submitting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Initializing:
		return "initializing"
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

// Session holds the transient state of one create/edit dialog. It is owned
// by a single caller and discarded on Close.
type Session struct {
	fields  []columns.Column
	values  map[string]any
	errors  map[string]string
	touched map[string]bool
	edit    bool
	id      any
	state   State
}

// Open starts a session over cols. System fields (identifier and audit
// columns) are excluded from the editable set. When record is non-nil the
// session edits it, seeding values from the record and remembering its
// identifier; otherwise it creates, seeding empty strings.
func Open(cols []columns.Column, record store.Record) *Session {
	s := &Session{state: Initializing}
	s.fields = columns.Editable(cols)
	s.values = make(map[string]any, len(s.fields))
	s.errors = make(map[string]string, len(s.fields))
	s.touched = make(map[string]bool, len(s.fields))
	for _, col := range s.fields {
		var v any = ""
		if record != nil {
			if rv, ok := record[col.FieldName]; ok && rv != nil {
				v = rv
			}
		}
		s.values[col.FieldName] = v
	}
	if record != nil {
		s.edit = true
		s.id = record[columns.FieldID]
	}
	s.state = Editing
	return s
}

// State returns the session's lifecycle state.
func (s *Session) State() State { return s.state }

// IsEdit reports whether the session targets an existing record.
func (s *Session) IsEdit() bool { return s.edit }

// Fields returns the editable column set in configuration order.
func (s *Session) Fields() []columns.Column { return columns.Clone(s.fields) }

// Value returns the current value of a field.
func (s *Session) Value(field string) any { return s.values[field] }

// SetField updates one field, re-validates it and marks it touched.
func (s *Session) SetField(field string, value any) {
	col, ok := columns.Lookup(s.fields, field)
	if !ok {
		return
	}
	s.values[field] = value
	s.errors[field] = ValidateField(col, value)
	s.touched[field] = true
}

// Touch marks a field as interacted with, without changing its value.
func (s *Session) Touch(field string) {
	if _, ok := columns.Lookup(s.fields, field); ok {
		s.touched[field] = true
	}
}

// FieldError returns the display error for a field. Errors are only shown
// for touched fields; Validate marks every failing field touched.
func (s *Session) FieldError(field string) string {
	if !s.touched[field] {
		return ""
	}
	return s.errors[field]
}

// Errors returns the error messages of all failing fields.
func (s *Session) Errors() map[string]string {
	out := make(map[string]string)
	for f, msg := range s.errors {
		if msg != "" {
			out[f] = msg
		}
	}
	return out
}

// Validate re-validates every field regardless of touched state. Failing
// fields become touched so their errors render. Submission must be refused
// when Validate reports false.
func (s *Session) Validate() bool {
	s.state = Validating
	valid := true
	for _, col := range s.fields {
		msg := ValidateField(col, s.values[col.FieldName])
		s.errors[col.FieldName] = msg
		if msg != "" {
			s.touched[col.FieldName] = true
			valid = false
		}
	}
	s.state = Editing
	return valid
}

// Payload assembles the outgoing record. The identifier is re-attached on
// edit sessions so the store can target the correct record; it is never
// part of the editable values themselves.
func (s *Session) Payload() store.Record {
	out := make(store.Record, len(s.values)+1)
	for f, v := range s.values {
		out[f] = v
	}
	if s.edit && s.id != nil {
		out[columns.FieldID] = s.id
	}
	return out
}

// ID returns the edited record's identifier, nil for create sessions.
func (s *Session) ID() any { return s.id }

// BeginSubmit moves the session into Submitting.
func (s *Session) BeginSubmit() { s.state = Submitting }

// Close destroys the session state.
func (s *Session) Close() {
	s.values = nil
	s.errors = nil
	s.touched = nil
	s.state = Closed
}

// ValidateField checks one candidate value against a column descriptor and
// returns an error message or "". Required-ness is checked before the
// type-specific rules so an empty field never raises a spurious type error.
func ValidateField(col columns.Column, value any) string {
	if col.Required && isEmpty(value) {
		return fmt.Sprintf("%s is required", col.DisplayName)
	}
	if isEmpty(value) {
		return ""
	}
	switch col.Type {
	case columns.TypeText:
		if col.MaxLength > 0 && len([]rune(fmt.Sprint(value))) > col.MaxLength {
			return fmt.Sprintf("%s must not exceed %d characters", col.DisplayName, col.MaxLength)
		}
	case columns.TypeNumber:
		if !isNumeric(value) {
			return fmt.Sprintf("%s must be a number", col.DisplayName)
		}
	case columns.TypeDate:
		if _, ok := columns.ParseDate(value); !ok {
			return fmt.Sprintf("%s must be a valid date", col.DisplayName)
		}
	case columns.TypeChoice, columns.TypePerson, columns.TypeLookup, columns.TypeBoolean:
		// No type-specific constraints beyond required-ness.
	}
	return ""
}

// isEmpty mirrors the falsy check of the source form: nil, empty or blank
// strings, false booleans and numeric zero all count as empty.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case int, int32, int64:
		return fmt.Sprint(v) == "0"
	case float32, float64:
		return fmt.Sprint(v) == "0"
	}
	return false
}

func isNumeric(value any) bool {
	switch value.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(value)), 64)
	return err == nil
}
