package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SZRabinowitz/slackscope/pkg/history"
	"github.com/SZRabinowitz/slackscope/pkg/models"
)

func TestRowOfUsesJSONTags(t *testing.T) {
	row := RowOf(models.Message{ChatID: "C1", TS: "1.000100", Author: "@jane", Text: "hi"})
	assert.Equal(t, "C1", row["chat_id"])
	assert.Equal(t, "@jane", row["author"])
	_, present := row["reply_count"]
	assert.False(t, present, "omitempty fields stay absent")
}

func TestHistoryRowsAreFlat(t *testing.T) {
	entries := []history.Entry{
		{
			Message:  models.Message{ChatID: "C1", TS: "1.000100", ThreadTS: "1.000100", Author: "@jane", Text: "root", ReplyCount: 5, IsThreadParent: true},
			Replies:  []models.Message{{ChatID: "C1", TS: "2.000100", ThreadTS: "1.000100", Author: "@omar", Text: "reply"}},
			Overflow: 3,
			Enriched: true,
		},
		{Message: models.Message{ChatID: "C1", TS: "3.000100", Author: "@jane", Text: "plain"}},
	}

	rows := HistoryRows(entries)
	require.Len(t, rows, 3, "one row per message, replies flattened inline")

	parent := rows[0]
	assert.Equal(t, 3, parent["inline_remaining"])
	_, nested := parent["replies"]
	assert.False(t, nested, "rows never nest")

	reply := rows[1]
	assert.Equal(t, "1.000100", reply["parent_ts"])
	assert.Equal(t, "reply", reply["text"])

	plain := rows[2]
	_, hasRemaining := plain["inline_remaining"]
	assert.False(t, hasRemaining)
	_, hasParent := plain["parent_ts"]
	assert.False(t, hasParent)
}

func TestApplyFields(t *testing.T) {
	row := Row{"id": "C1", "name": "#general", "unread": float64(2)}

	explicit := applyFields(row, []string{"id"}, ChatFields)
	assert.Equal(t, Row{"id": "C1"}, explicit)

	defaulted := applyFields(row, nil, []string{"id", "name"})
	assert.Equal(t, Row{"id": "C1", "name": "#general"}, defaulted)

	passthrough := applyFields(row, nil, nil)
	assert.Equal(t, row, passthrough)
}

func TestEmitListJSON(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{{"id": "U1", "handle": "@jane", "status": "active"}}
	require.NoError(t, EmitList(&buf, FormatJSON, rows, []string{"id", "handle"}, UserFields))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "@jane", decoded[0]["handle"])
	_, present := decoded[0]["status"]
	assert.False(t, present)
}

func TestEmitListJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EmitList(&buf, FormatJSON, nil, nil, UserFields))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()), "an empty listing is an empty array, not null")
}

func TestEmitListJSONL(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{
		{"id": "U1", "handle": "@jane"},
		{"id": "U2", "handle": "@omar"},
	}
	require.NoError(t, EmitList(&buf, FormatJSONL, rows, nil, []string{"id", "handle"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for i, line := range lines {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &decoded), "line %d must be standalone JSON", i)
	}
}

func TestEmitListTSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{
		{"id": "C1", "name": "#general", "unread": float64(2), "last_text": "line\none\twith tabs"},
		{"id": "C2", "name": "#dev", "unread": float64(0), "last_text": nil},
	}
	require.NoError(t, EmitList(&buf, FormatTSV, rows, []string{"id", "name", "unread", "last_text"}, ChatFields))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id\tname\tunread\tlast_text", lines[0])
	assert.Equal(t, "C1\t#general\t2\tline one with tabs", lines[1], "cell text is tab- and newline-safe")
	assert.Equal(t, "C2\t#dev\t0\t", lines[2], "missing values are empty cells")
}

func TestEmitOne(t *testing.T) {
	var buf bytes.Buffer
	row := Row{"ts": "1.000100", "text": "full\nfidelity"}
	require.NoError(t, EmitOne(&buf, FormatJSON, row, nil, MessageFields))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "full\nfidelity", decoded["text"], "machine output never collapses text")
}

func TestEmitUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, EmitList(&buf, FormatPretty, nil, nil, nil))
	assert.Error(t, EmitOne(&buf, Format("csv"), Row{}, nil, nil))
}

func TestTsvCell(t *testing.T) {
	assert.Equal(t, "", tsvCell(nil))
	assert.Equal(t, "7", tsvCell(float64(7)))
	assert.Equal(t, "1.5", tsvCell(1.5))
	assert.Equal(t, `["a","b"]`, tsvCell([]string{"a", "b"}))
}
