package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"
)

// Formatter is the interface for output formatting
type Formatter interface {
	// PrintValue writes a stored value exactly as kept, followed by a newline.
	PrintValue(key, value string) error
	PrintResult(r Result) error
	PrintList(items any, columns []Column) error
	PrintError(err error)
	PrintHint(msg string)
}

// Result describes a completed mutating command
type Result struct {
	Action  string `json:"action"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Column defines a column for table/list output
type Column struct {
	Name  string // Display name
	Key   string // Struct field name or map key
	Width int    // Width for rich mode (0 = auto)
}

// New creates a formatter for the specified mode writing to out and errOut
func New(mode string, out, errOut io.Writer) Formatter {
	switch mode {
	case "json":
		return &jsonFormatter{out: out, errOut: errOut}
	case "rich":
		profile := termenv.ColorProfile()
		if termenv.EnvNoColor() {
			profile = termenv.Ascii
		}
		return &richFormatter{out: out, errOut: errOut, profile: profile}
	default:
		return &plainFormatter{out: out, errOut: errOut}
	}
}

// jsonFormatter outputs JSON
type jsonFormatter struct {
	out    io.Writer
	errOut io.Writer
}

func (f *jsonFormatter) encode(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *jsonFormatter) PrintValue(key, value string) error {
	return f.encode(f.out, map[string]string{"key": key, "value": value})
}

func (f *jsonFormatter) PrintResult(r Result) error {
	return f.encode(f.out, map[string]string{
		"status":  "ok",
		"action":  r.Action,
		"key":     r.Key,
		"message": r.Message,
	})
}

func (f *jsonFormatter) PrintList(items any, columns []Column) error {
	rows := collectRows(items, columns)
	return f.encode(f.out, map[string]any{
		"data":  rows,
		"count": len(rows),
	})
}

func (f *jsonFormatter) PrintError(err error) {
	_ = f.encode(f.errOut, map[string]string{"error": err.Error()})
}

func (f *jsonFormatter) PrintHint(msg string) {
	// Hints are for humans; JSON consumers get the error only
}

// plainFormatter outputs unstyled text and tab-separated lists
type plainFormatter struct {
	out    io.Writer
	errOut io.Writer
}

func (f *plainFormatter) PrintValue(key, value string) error {
	_, err := fmt.Fprintln(f.out, value)
	return err
}

func (f *plainFormatter) PrintResult(r Result) error {
	_, err := fmt.Fprintln(f.out, r.Message)
	return err
}

func (f *plainFormatter) PrintList(items any, columns []Column) error {
	if !isSlice(items) {
		return fmt.Errorf("PrintList requires a slice")
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}
	fmt.Fprintf(f.out, "%s\n", strings.Join(headers, "\t"))

	for _, row := range collectRows(items, columns) {
		values := make([]string, len(columns))
		for j, col := range columns {
			values[j] = row[col.Key]
		}
		fmt.Fprintf(f.out, "%s\n", strings.Join(values, "\t"))
	}

	return nil
}

func (f *plainFormatter) PrintError(err error) {
	fmt.Fprintf(f.errOut, "error: %v\n", err)
}

func (f *plainFormatter) PrintHint(msg string) {
	fmt.Fprintf(f.errOut, "hint: %v\n", msg)
}

// richFormatter outputs styled content for terminal
type richFormatter struct {
	out     io.Writer
	errOut  io.Writer
	profile termenv.Profile
}

func (f *richFormatter) render(style lipgloss.Style, s string) string {
	if f.profile == termenv.Ascii {
		return s
	}
	return style.Render(s)
}

// PrintValue never styles: the value may be captured by a shell.
func (f *richFormatter) PrintValue(key, value string) error {
	_, err := fmt.Fprintln(f.out, value)
	return err
}

func (f *richFormatter) PrintResult(r Result) error {
	okStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	_, err := fmt.Fprintf(f.out, "%s %s\n", f.render(okStyle, "✓"), r.Message)
	return err
}

func (f *richFormatter) PrintList(items any, columns []Column) error {
	if !isSlice(items) {
		return fmt.Errorf("PrintList requires a slice")
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	RenderTable(f.out, columns, collectRows(items, columns), func(s string) string {
		return f.render(headerStyle, s)
	})
	return nil
}

func (f *richFormatter) PrintError(err error) {
	errorStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9"))

	fmt.Fprintf(f.errOut, "%s\n", f.render(errorStyle, "error: "+err.Error()))
}

func (f *richFormatter) PrintHint(msg string) {
	hintStyle := lipgloss.NewStyle().
		Faint(true).
		Foreground(lipgloss.Color("8"))

	fmt.Fprintf(f.errOut, "%s\n", f.render(hintStyle, "hint: "+msg))
}

func isSlice(items any) bool {
	v := reflect.ValueOf(items)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v.Kind() == reflect.Slice
}

// collectRows flattens a slice of structs or maps into column-keyed rows
func collectRows(items any, columns []Column) []map[string]string {
	v := reflect.ValueOf(items)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return nil
	}

	rows := make([]map[string]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		if item.Kind() == reflect.Ptr {
			item = item.Elem()
		}

		row := make(map[string]string)
		for _, col := range columns {
			if item.Kind() == reflect.Map {
				mapVal := item.MapIndex(reflect.ValueOf(col.Key))
				if mapVal.IsValid() {
					row[col.Key] = fmt.Sprintf("%v", mapVal.Interface())
				}
			} else if item.Kind() == reflect.Struct {
				field := item.FieldByName(col.Key)
				if field.IsValid() {
					row[col.Key] = fmt.Sprintf("%v", field.Interface())
				}
			}
		}
		rows[i] = row
	}
	return rows
}
