package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/store"
	"github.com/agentstation/toolhub/internal/transfer"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

const toolsCSV = `Name,Website,Categories (comma-separated),Pricing Model (FREE/PAID/FREE_PAID)
ChatGPT,https://chat.openai.com,Writing,FREE_PAID
Broken,not a url,Writing,SOMETIMES
Claude,https://claude.ai,"Writing, Coding",FREE
`

func newMock(t *testing.T) (*application.Mock, *store.Memory) {
	t.Helper()
	mem, err := store.NewMemory()
	require.NoError(t, err)
	return &application.Mock{
		StoreFunc:        func() (store.Store, error) { return mem, nil },
		OutputFormatFunc: func() string { return "json" },
	}, mem
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImport(t *testing.T) {
	mock, mem := newMock(t)
	path := writeFile(t, "tools.csv", toolsCSV)

	out, err := run(t, NewImportCommand(mock), path)
	require.NoError(t, err)

	var summary Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Imported)
	assert.Len(t, summary.IDs, 2)
	require.Len(t, summary.Invalid, 1)
	assert.Equal(t, 2, summary.Invalid[0].Row)
	assert.NotEmpty(t, summary.Invalid[0].Issues)

	n, err := mem.Count(context.Background(), catalog.CollectionTools)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImportDryRun(t *testing.T) {
	mock, mem := newMock(t)
	path := writeFile(t, "tools.csv", toolsCSV)

	out, err := run(t, NewImportCommand(mock), path, "--dry-run")
	require.NoError(t, err)

	var summary Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.True(t, summary.DryRun)
	assert.Zero(t, summary.Imported)

	n, err := mem.Count(context.Background(), catalog.CollectionTools)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImportRejectsMarkdown(t *testing.T) {
	mock, _ := newMock(t)
	path := writeFile(t, "tools.md", "# Tools")

	_, err := run(t, NewImportCommand(mock), path)
	assert.True(t, errors.IsValidationError(err))

	_, err = run(t, NewImportCommand(mock), writeFile(t, "tools.pdf", ""))
	assert.True(t, errors.IsValidationError(err))
}

func TestExportToStdout(t *testing.T) {
	mock, mem := newMock(t)
	_, err := mem.Put(context.Background(), catalog.CollectionTools, transfer.Sample(catalog.KindTool))
	require.NoError(t, err)

	out, err := run(t, NewExportCommand(mock), "--format", "csv", "--out", "-")
	require.NoError(t, err)

	items, err := transfer.Import(strings.NewReader(out), transfer.FormatCSV, catalog.KindTool)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ChatGPT", items[0].Name)
}

func TestExportToFile(t *testing.T) {
	mock, mem := newMock(t)
	_, err := mem.Put(context.Background(), catalog.CollectionTools, transfer.Sample(catalog.KindTool))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tools.xlsx")
	out, err := run(t, NewExportCommand(mock), "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	items, err := transfer.ReadXLSX(f, catalog.KindTool)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestTemplate(t *testing.T) {
	mock, _ := newMock(t)
	path := filepath.Join(t.TempDir(), "guides.xlsx")

	_, err := run(t, NewTemplateCommand(mock), "-c", "guides", "--out", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	items, err := transfer.ReadXLSX(f, catalog.KindGuide)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, catalog.KindGuide, items[0].Kind)
}

func TestResolveFormat(t *testing.T) {
	f, err := resolveFormat("", "catalog.YAML")
	require.NoError(t, err)
	assert.Equal(t, transfer.FormatYAML, f)

	f, err = resolveFormat("csv", "catalog.xlsx")
	require.NoError(t, err)
	assert.Equal(t, transfer.FormatCSV, f)

	_, err = resolveFormat("", "catalog")
	assert.True(t, errors.IsValidationError(err))
}
