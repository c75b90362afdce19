package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// Tabular is implemented by results that lay out their own tables. Wide
// asks for extra columns or rows.
type Tabular interface {
	Tables(wide bool) []*Table
}

// TableFormatter formats data as aligned text tables.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format renders a Tabular, a *Table, a struct or a map. Anything else is
// written as JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	var tables []*Table
	switch v := data.(type) {
	case Tabular:
		tables = v.Tables(f.Wide)
	case *Table:
		tables = []*Table{v}
	case Table:
		tables = []*Table{&v}
	default:
		t, err := toTable(data)
		if err != nil {
			encoder := json.NewEncoder(w)
			encoder.SetIndent("", "  ")
			return encoder.Encode(data)
		}
		tables = []*Table{t}
	}

	for i, t := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := t.RenderWithOptions(w, f.NoHeaders); err != nil {
			return err
		}
	}
	return nil
}

func toTable(data any) (*Table, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return structToTable(v), nil
	case reflect.Map:
		return mapToTable(v), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
}

// mapToTable lists map entries sorted by key.
func mapToTable(v reflect.Value) *Table {
	table := &Table{Headers: []string{"KEY", "VALUE"}}

	iter := v.MapRange()
	for iter.Next() {
		table.AddRow(FormatValue(iter.Key().Interface()), FormatValue(iter.Value().Interface()))
	}
	sort.Slice(table.Rows, func(i, j int) bool { return table.Rows[i][0] < table.Rows[j][0] })
	return table
}

// structToTable lists exported fields by their JSON name. Fields tagged
// table:"-" are skipped.
func structToTable(v reflect.Value) *Table {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("table") == "-" {
			continue
		}
		name := field.Name
		if tag, _, _ := strings.Cut(field.Tag.Get("json"), ","); tag != "" && tag != "-" {
			name = tag
		}
		table.AddRow(name, FormatValue(v.Field(i).Interface()))
	}
	return table
}

// FormatValue renders a single cell. Empty values show as "-".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		return x.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return orDash(x.String())
	case string:
		return orDash(x)
	case float32, float64:
		return fmt.Sprintf("%.2f", x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "-"
		}
		return FormatValue(rv.Elem().Interface())
	case reflect.String:
		return orDash(rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("[%d items]", rv.Len())
	case reflect.Map:
		if rv.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", rv.Len())
	default:
		return fmt.Sprintf("%v", v)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Table represents tabular data.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewKeyValueTable starts a FIELD/VALUE table.
func NewKeyValueTable(title string) *Table {
	return &Table{Title: title, Headers: []string{"FIELD", "VALUE"}}
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table, optionally without the title and
// header line.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders {
		if t.Title != "" {
			fmt.Fprintln(tw, t.Title)
		}
		if len(t.Headers) > 0 {
			fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
		}
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
