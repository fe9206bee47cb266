package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// EmitList serializes rows in the requested machine format. Machine
// output never truncates text.
func EmitList(w io.Writer, format Format, rows []Row, fields, defaults []string) error {
	switch format {
	case FormatJSON:
		filtered := make([]Row, 0, len(rows))
		for _, row := range rows {
			filtered = append(filtered, applyFields(row, fields, defaults))
		}
		return writeJSON(w, filtered, true)
	case FormatJSONL:
		for _, row := range rows {
			if err := writeJSON(w, applyFields(row, fields, defaults), false); err != nil {
				return err
			}
		}
		return nil
	case FormatTSV:
		return writeTSV(w, rows, fields, defaults)
	}
	return fmt.Errorf("unsupported machine format: %s", format)
}

// EmitOne serializes a single record.
func EmitOne(w io.Writer, format Format, row Row, fields, defaults []string) error {
	switch format {
	case FormatJSON, FormatJSONL:
		return writeJSON(w, applyFields(row, fields, defaults), format == FormatJSON)
	case FormatTSV:
		return writeTSV(w, []Row{row}, fields, defaults)
	}
	return fmt.Errorf("unsupported machine format: %s", format)
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeTSV(w io.Writer, rows []Row, fields, defaults []string) error {
	if len(rows) == 0 {
		return nil
	}
	columns := fields
	if len(columns) == 0 {
		columns = defaults
	}
	if len(columns) == 0 {
		for k := range rows[0] {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}
	if _, err := fmt.Fprintln(w, strings.Join(columns, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, tsvCell(row[col]))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// tsvCell flattens a value into one tab-safe cell.
func tsvCell(v any) string {
	if v == nil {
		return ""
	}
	var raw string
	switch t := v.(type) {
	case string:
		raw = t
	case float64:
		// json numbers decode as float64; keep integers undecorated.
		if t == float64(int64(t)) {
			raw = fmt.Sprintf("%d", int64(t))
		} else {
			raw = fmt.Sprintf("%v", t)
		}
	default:
		data, err := json.Marshal(v)
		if err != nil {
			raw = fmt.Sprintf("%v", v)
		} else {
			raw = string(data)
		}
	}
	raw = strings.ReplaceAll(raw, "\t", " ")
	raw = strings.ReplaceAll(raw, "\n", " ")
	return raw
}
