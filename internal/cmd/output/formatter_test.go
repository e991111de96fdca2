package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/toolhub/internal/cmd/table"
)

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestPrint(t *testing.T) {
	data := map[string]int{"items": 2}
	toTable := func(wide bool) table.Data {
		if wide {
			return table.Data{Headers: []string{"Key", "Value", "Extra"}, Rows: [][]string{{"items", "2", "x"}}}
		}
		return table.Data{Headers: []string{"Key", "Value"}, Rows: [][]string{{"items", "2"}}}
	}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatJSON, data, toTable))
	assert.JSONEq(t, `{"items":2}`, buf.String())

	buf.Reset()
	require.NoError(t, Print(&buf, FormatYAML, data, toTable))
	assert.Equal(t, "items: 2\n", buf.String())

	buf.Reset()
	require.NoError(t, Print(&buf, FormatTable, data, toTable))
	assert.Contains(t, strings.ToUpper(buf.String()), "KEY")
	assert.NotContains(t, strings.ToUpper(buf.String()), "EXTRA")

	buf.Reset()
	require.NoError(t, Print(&buf, FormatWide, data, toTable))
	assert.Contains(t, strings.ToUpper(buf.String()), "EXTRA")

	buf.Reset()
	require.NoError(t, Print(&buf, FormatTable, data, nil))
	assert.JSONEq(t, `{"items":2}`, buf.String())
}
