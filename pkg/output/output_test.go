package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/reelhouse/cli/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, format Format) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevColor := Out, color.NoColor
	Out, color.NoColor = &buf, true
	config.Set("output.format", string(format))
	t.Cleanup(func() {
		Out, color.NoColor = prevOut, prevColor
		config.Set("output.format", "text")
	})
	return &buf
}

func TestValid(t *testing.T) {
	tests := []struct {
		format  string
		isValid bool
	}{
		{"json", true},
		{"text", true},
		{"table", true},
		{"yaml", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.isValid, Valid(tt.format), tt.format)
	}
}

func TestCurrentFallsBackToText(t *testing.T) {
	capture(t, "xml")
	assert.Equal(t, FormatText, Current())
}

func TestTableAligns(t *testing.T) {
	buf := capture(t, FormatTable)

	require.NoError(t, Table([]string{"ID", "Author"}, [][]string{{"p1", "ann"}, {"p22", "bob"}}, nil))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID   Author", lines[0])
	assert.Equal(t, "p22  bob", lines[2])
}

func TestTableEmpty(t *testing.T) {
	buf := capture(t, FormatText)
	require.NoError(t, Table([]string{"ID"}, nil, nil))
	assert.Equal(t, "(none)\n", buf.String())
}

func TestTableInJSONModePrintsData(t *testing.T) {
	buf := capture(t, FormatJSON)
	require.NoError(t, Table([]string{"ID"}, [][]string{{"p1"}}, []map[string]string{{"id": "p1"}}))
	assert.JSONEq(t, `[{"id":"p1"}]`, buf.String())
}

func TestRecordIsSorted(t *testing.T) {
	buf := capture(t, FormatText)
	require.NoError(t, Record("Settings", map[string]interface{}{"b": 2, "a": 1}))
	assert.Equal(t, "Settings\na: 1\nb: 2\n", buf.String())
}

func TestMessages(t *testing.T) {
	buf := capture(t, FormatText)
	Success("liked %s", "p1")
	Error("nope")
	Warning("careful")
	Info("fyi")
	assert.Equal(t, "liked p1\nError: nope\nWarning: careful\nfyi\n", buf.String())
}
