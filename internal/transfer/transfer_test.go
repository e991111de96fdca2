package transfer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

func tools() []catalog.Item {
	return []catalog.Item{
		Sample(catalog.KindTool),
		{
			Kind:         catalog.KindTool,
			Name:         "Midjourney",
			ShortDesc:    "Image generation | art",
			Website:      "https://midjourney.com",
			Categories:   []string{"Design"},
			UseCases:     []string{},
			Platforms:    []string{"Discord"},
			PricingModel: catalog.PricingPaid,
			AccessType:   catalog.AccessSubscription,
			Price:        10.5,
			Locked:       true,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"xlsx", FormatXLSX, true},
		{".XLSX", FormatXLSX, true},
		{"yml", FormatYAML, true},
		{"markdown", FormatMarkdown, true},
		{"csv", FormatCSV, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.False(t, FormatMarkdown.Importable())
	assert.True(t, FormatCSV.Importable())
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatXLSX, FormatCSV, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(&buf, format, catalog.KindTool, tools()))

			got, err := Import(&buf, format, catalog.KindTool)
			require.NoError(t, err)
			require.Len(t, got, 2)

			assert.Equal(t, "ChatGPT", got[0].Name)
			assert.Equal(t, []string{"Writing", "Productivity", "Coding"}, got[0].Categories)
			assert.Equal(t, []string{"Content Creation", "Code Generation", "Research"}, got[0].UseCases)
			assert.Equal(t, catalog.PricingFreePaid, got[0].PricingModel)
			assert.Equal(t, catalog.AccessSubscription, got[0].AccessType)
			assert.True(t, got[0].Public)

			assert.Equal(t, "Midjourney", got[1].Name)
			assert.Equal(t, 10.5, got[1].Price)
			assert.True(t, got[1].Locked)
			assert.Equal(t, []string{}, got[1].UseCases)
			assert.Equal(t, catalog.KindTool, got[1].Kind)
		})
	}
}

func TestGuideRoundTrip(t *testing.T) {
	guide := Sample(catalog.KindGuide)
	guide.Locked = true

	for _, format := range []Format{FormatXLSX, FormatCSV} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(&buf, format, catalog.KindGuide, []catalog.Item{guide}))

			got, err := Import(&buf, format, catalog.KindGuide)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "Freelancing Starter Kit", got[0].Name)
			assert.Equal(t, catalog.GuideFreelancingKit, got[0].GuideType)
			assert.Equal(t, catalog.DifficultyBeginner, got[0].Difficulty)
			assert.Equal(t, []string{"freelance", "business", "money"}, got[0].Tags)
			assert.Equal(t, "# Introduction\nThis kit helps you start...", got[0].Content)
			assert.True(t, got[0].Locked, "premium maps to locked")
			assert.Equal(t, catalog.KindGuide, got[0].Kind)
		})
	}
}

func TestReadCSVDefaults(t *testing.T) {
	in := strings.Join([]string{
		"Name,Website,Categories (comma-separated),Price (number),Locked (true/false)",
		"Claude,https://claude.ai, Writing ,abc,TRUE",
		",https://skipped.example.com,Writing,1,false",
		"Gemini,https://gemini.google.com,\"Research, ,Writing\",3,yes",
	}, "\n")

	got, err := Import(strings.NewReader(in), FormatCSV, catalog.KindTool)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, catalog.PricingFree, got[0].PricingModel)
	assert.Equal(t, catalog.AccessFree, got[0].AccessType)
	assert.Equal(t, []string{"Writing"}, got[0].Categories)
	assert.Zero(t, got[0].Price)
	assert.True(t, got[0].Locked)

	assert.Equal(t, []string{"Research", "Writing"}, got[1].Categories)
	assert.Equal(t, 3.0, got[1].Price)
	assert.False(t, got[1].Locked, "only true locks")
}

func TestImportErrors(t *testing.T) {
	_, err := Import(strings.NewReader("not a zip"), FormatXLSX, catalog.KindTool)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	_, err = Import(strings.NewReader("- name: [unterminated"), FormatYAML, catalog.KindTool)
	require.Error(t, err)

	_, err = Import(strings.NewReader(""), FormatMarkdown, catalog.KindTool)
	assert.True(t, errors.IsValidationError(err))

	err = Export(&bytes.Buffer{}, Format("pdf"), catalog.KindTool, nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, catalog.KindTool))

	got, err := ReadXLSX(&buf, catalog.KindTool)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ChatGPT", got[0].Name)
	assert.NoError(t, got[0].Validate())
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, catalog.KindTool, tools()))

	out := buf.String()
	assert.Contains(t, out, "# Tools")
	assert.Contains(t, out, "2 tools listed.")
	assert.Contains(t, out, "[ChatGPT](https://chat.openai.com)")
	assert.Contains(t, out, "Image generation")
	assert.NotContains(t, out, "generation | art", "pipes are escaped inside cells")
}

func TestValidateBatch(t *testing.T) {
	bad := catalog.Item{Kind: catalog.KindTool, Name: "", PricingModel: "SOMETIMES"}
	report := ValidateBatch([]catalog.Item{tools()[0], bad, tools()[1]})

	assert.False(t, report.OK())
	assert.Len(t, report.Valid, 2)
	require.Len(t, report.Invalid, 1)
	assert.Equal(t, 2, report.Invalid[0].Row)
	assert.GreaterOrEqual(t, len(report.Invalid[0].Issues), 3)
	for _, e := range report.Invalid[0].Errors {
		assert.True(t, errors.IsValidationError(e))
	}
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", columnName(0))
	assert.Equal(t, "Z", columnName(25))
	assert.Equal(t, "AA", columnName(26))
	assert.Equal(t, "AZ", columnName(51))
	assert.Equal(t, "BA", columnName(52))
	assert.Equal(t, "C7", axis(2, 7))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "tools_export_2025-01-02.xlsx", Filename("tools", FormatXLSX, "2025-01-02"))
}
