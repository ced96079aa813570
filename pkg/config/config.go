package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
	"gopkg.in/yaml.v3"

	"github.com/faciam-dev/listdash/pkg/columns"
)

// ErrConfiguration marks a fatal configuration error; startup must abort.
var ErrConfiguration = errors.New("configuration error")

// Default bounds applied when the document omits them.
const (
	DefaultItemsPerPage = 10
	DefaultTopCount     = 5000
)

// Config is the root dashboard configuration, supplied once at startup.
type Config struct {
	ListName         string           `yaml:"listName" json:"listName"`
	Collection       string           `yaml:"collection,omitempty" json:"collection,omitempty"`
	Columns          []columns.Column `yaml:"columns" json:"columns"`
	CommonFilters    []string         `yaml:"commonFilters,omitempty" json:"commonFilters,omitempty"`
	SearchableFields []string         `yaml:"searchableFields,omitempty" json:"searchableFields,omitempty"`
	ItemsPerPage     int              `yaml:"itemsPerPage,omitempty" json:"itemsPerPage,omitempty"`
	TopCount         int              `yaml:"topCount,omitempty" json:"topCount,omitempty"`

	EnableAddForm        bool `yaml:"enableAddForm" json:"enableAddForm"`
	EnableEditForm       bool `yaml:"enableEditForm" json:"enableEditForm"`
	EnableDeleteForm     bool `yaml:"enableDeleteForm" json:"enableDeleteForm"`
	EnableColumnSelector bool `yaml:"enableColumnSelector" json:"enableColumnSelector"`
	EnableExport         bool `yaml:"enableExport" json:"enableExport"`
}

// Load reads a dashboard configuration document. JSON documents are detected
// by extension; everything else parses as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &c)
	} else {
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyDefaults fills derivable fields: page size, working-set cap, display
// names and the backing collection name.
func (c *Config) ApplyDefaults() {
	if c.ItemsPerPage <= 0 {
		c.ItemsPerPage = DefaultItemsPerPage
	}
	if c.TopCount <= 0 {
		c.TopCount = DefaultTopCount
	}
	if c.Collection == "" {
		c.Collection = strcase.ToSnake(inflection.Plural(c.ListName))
	}
	for i := range c.Columns {
		if c.Columns[i].DisplayName == "" {
			c.Columns[i].DisplayName = humanize(c.Columns[i].FieldName)
		}
		if columns.Reserved(c.Columns[i].FieldName) {
			c.Columns[i].Visible = true
		}
	}
}

// Validate checks the configuration shape. Violations are fatal at load.
func (c *Config) Validate() error {
	if c.ListName == "" {
		return fmt.Errorf("%w: listName is required", ErrConfiguration)
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("%w: at least one column is required", ErrConfiguration)
	}
	seen := make(map[string]struct{}, len(c.Columns))
	for _, col := range c.Columns {
		if col.FieldName == "" {
			return fmt.Errorf("%w: column with empty fieldName", ErrConfiguration)
		}
		if _, dup := seen[col.FieldName]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrConfiguration, col.FieldName)
		}
		seen[col.FieldName] = struct{}{}
		if !col.Type.Valid() {
			return fmt.Errorf("%w: column %q has unknown type %q", ErrConfiguration, col.FieldName, col.Type)
		}
		if col.Type == columns.TypeChoice && len(col.Choices) == 0 {
			return fmt.Errorf("%w: choice column %q has no choices", ErrConfiguration, col.FieldName)
		}
		if col.MaxLength < 0 {
			return fmt.Errorf("%w: column %q has negative maxLength", ErrConfiguration, col.FieldName)
		}
		if col.Format != "" && col.Format != columns.FormatDateOnly && col.Format != columns.FormatDateTime {
			return fmt.Errorf("%w: column %q has unknown format %q", ErrConfiguration, col.FieldName, col.Format)
		}
	}
	for _, f := range c.SearchableFields {
		if _, ok := seen[f]; !ok {
			return fmt.Errorf("%w: searchableFields references unknown column %q", ErrConfiguration, f)
		}
	}
	return nil
}

// SearchColumns resolves the effective searchable column set over cols,
// honoring the explicit searchableFields override when present.
func (c *Config) SearchColumns(cols []columns.Column) []columns.Column {
	if len(c.SearchableFields) == 0 {
		return columns.Searchable(cols)
	}
	out := make([]columns.Column, 0, len(c.SearchableFields))
	for _, col := range cols {
		for _, f := range c.SearchableFields {
			if col.FieldName == f {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

// CommonFilterColumns returns the quick-filter descriptors. Names that do
// not resolve to a filterable column are skipped.
func (c *Config) CommonFilterColumns() []columns.Column {
	out := make([]columns.Column, 0, len(c.CommonFilters))
	for _, f := range c.CommonFilters {
		col, ok := columns.Lookup(c.Columns, f)
		if ok && col.Filterable {
			out = append(out, col)
		}
	}
	return out
}

// humanize derives a presentation label from a field name, e.g.
// "createdAt" -> "Created At".
func humanize(field string) string {
	words := strings.Split(strcase.ToDelimited(field, ' '), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
