package columns

// FieldType enumerates the supported column types. Rendering and validation
// dispatch over this tag; unknown values are rejected at configuration load.
type FieldType string

const (
	TypeText    FieldType = "text"
	TypeNumber  FieldType = "number"
	TypeDate    FieldType = "date"
	TypeChoice  FieldType = "choice"
	TypePerson  FieldType = "person"
	TypeLookup  FieldType = "lookup"
	TypeBoolean FieldType = "boolean"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case TypeText, TypeNumber, TypeDate, TypeChoice, TypePerson, TypeLookup, TypeBoolean:
		return true
	}
	return false
}

// Date formats accepted by the "format" hint.
const (
	FormatDateOnly = "date-only"
	FormatDateTime = "date-time"
)

// Reserved field names whose visibility is pinned permanently on.
const (
	FieldID    = "ID"
	FieldTitle = "Title"
)

// System fields excluded from generated forms. The identifier is re-attached
// to edit payloads by the form session.
const (
	FieldCreated  = "Created"
	FieldModified = "Modified"
	FieldAuthor   = "Author"
)

// Column describes one displayed or editable field.
type Column struct {
	FieldName   string    `yaml:"fieldName" json:"fieldName"`
	DisplayName string    `yaml:"displayName,omitempty" json:"displayName"`
	Type        FieldType `yaml:"type" json:"type"`
	Visible     bool      `yaml:"visible" json:"visible"`
	Filterable  bool      `yaml:"filterable,omitempty" json:"filterable"`
	Searchable  bool      `yaml:"searchable,omitempty" json:"searchable"`
	Sortable    bool      `yaml:"sortable,omitempty" json:"sortable"`
	Width       string    `yaml:"width,omitempty" json:"width,omitempty"`
	Required    bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Choices     []string  `yaml:"choices,omitempty" json:"choices,omitempty"`
	MaxLength   int       `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Format      string    `yaml:"format,omitempty" json:"format,omitempty"`
}

// Reserved reports whether field is one of the pinned columns.
func Reserved(field string) bool {
	return field == FieldID || field == FieldTitle
}

// System reports whether field is excluded from generated forms.
func System(field string) bool {
	switch field {
	case FieldID, FieldCreated, FieldModified, FieldAuthor:
		return true
	}
	return false
}

// Visible returns the visible subset of cols, order preserved.
func Visible(cols []Column) []Column {
	return filter(cols, func(c Column) bool { return c.Visible })
}

// Filterable returns the filterable subset of cols, order preserved.
func Filterable(cols []Column) []Column {
	return filter(cols, func(c Column) bool { return c.Filterable })
}

// Searchable returns the searchable subset of cols, order preserved.
func Searchable(cols []Column) []Column {
	return filter(cols, func(c Column) bool { return c.Searchable })
}

// Editable returns the subset of cols rendered in generated forms.
func Editable(cols []Column) []Column {
	return filter(cols, func(c Column) bool { return !System(c.FieldName) })
}

// Lookup returns the descriptor named field.
func Lookup(cols []Column, field string) (Column, bool) {
	for _, c := range cols {
		if c.FieldName == field {
			return c, true
		}
	}
	return Column{}, false
}

func filter(cols []Column, keep func(Column) bool) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy of cols.
func Clone(cols []Column) []Column {
	out := make([]Column, len(cols))
	copy(out, cols)
	for i := range out {
		if len(out[i].Choices) > 0 {
			ch := make([]string, len(out[i].Choices))
			copy(ch, out[i].Choices)
			out[i].Choices = ch
		}
	}
	return out
}
