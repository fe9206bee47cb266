// Package render is the presentation engine: one shared record
// projection plus field selection feeds four serializers (pretty,
// json, jsonl, tsv). Machine formats are flat and full-fidelity; the
// pretty format groups, collapses and truncates.
package render

import (
	"encoding/json"

	"github.com/SZRabinowitz/slackscope/pkg/history"
)

type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatJSONL  Format = "jsonl"
	FormatTSV    Format = "tsv"
)

// Row is one format-agnostic render record. Rows are built fresh per
// render call and never mutated after emission.
type Row map[string]any

// Default field sets per record shape; key names are stable across
// invocations and across all machine formats.
var (
	MeFields       = []string{"workspace", "team", "team_id", "user", "user_id", "email", "tz"}
	UserFields     = []string{"id", "handle", "name", "email", "status"}
	ChatFields     = []string{"id", "type", "name", "unread", "last_ts", "last_user", "last_text"}
	ChatShowFields = []string{"id", "type", "name", "is_member", "is_archived", "members", "unread", "last_ts", "last_user", "last_text", "topic", "purpose"}
	HistoryFields  = []string{"chat_id", "ts", "author", "text", "thread_ts", "reply_count", "subtype", "parent_ts", "inline_remaining"}
	MessageFields  = []string{"chat_id", "ts", "author", "author_id", "text", "thread_ts", "reply_count", "subtype", "edited"}
)

// RowOf projects any json-tagged record into a Row.
func RowOf(v any) Row {
	data, err := json.Marshal(v)
	if err != nil {
		return Row{}
	}
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return Row{}
	}
	return row
}

// RowsOf projects a slice of records.
func RowsOf[T any](items []T) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, RowOf(item))
	}
	return rows
}

// HistoryRows flattens assembled history: one row per message plus one
// row per inline reply. Reply rows carry parent_ts as a back-reference;
// parent rows carry inline_remaining.
func HistoryRows(entries []history.Entry) []Row {
	var rows []Row
	for _, e := range entries {
		row := RowOf(e.Message)
		if e.Message.IsThreadParent {
			row["inline_remaining"] = e.Overflow
		}
		rows = append(rows, row)
		for _, reply := range e.Replies {
			rr := RowOf(reply)
			rr["parent_ts"] = e.Message.TS
			rows = append(rows, rr)
		}
	}
	return rows
}

// applyFields filters a row down to the selected keys. Explicit
// selection wins over defaults; no selection passes the row through.
func applyFields(row Row, fields, defaults []string) Row {
	selected := fields
	if len(selected) == 0 {
		selected = defaults
	}
	if len(selected) == 0 {
		return row
	}
	out := make(Row, len(selected))
	for _, f := range selected {
		out[f] = row[f]
	}
	return out
}
