// Package transfer provides the import, export and template commands.
package transfer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/toolhub/internal/analytics"
	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/cmd/cmdutil"
	"github.com/agentstation/toolhub/internal/cmd/emoji"
	"github.com/agentstation/toolhub/internal/cmd/globals"
	"github.com/agentstation/toolhub/internal/cmd/output"
	"github.com/agentstation/toolhub/internal/cmd/table"
	"github.com/agentstation/toolhub/internal/transfer"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
)

// Summary is the outcome of an import.
type Summary struct {
	File     string              `json:"file"`
	Format   transfer.Format     `json:"format"`
	Imported int                 `json:"imported"`
	IDs      []string            `json:"ids"`
	Invalid  []transfer.Rejected `json:"invalid"`
	DryRun   bool                `json:"dryRun"`
}

// NewImportCommand creates the import command.
func NewImportCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import <file>",
		GroupID: "management",
		Short:   "Import tools or guides from a spreadsheet, CSV or YAML file",
		Long: `Import reads every row of the file, validates it, and stores the rows
that pass. Rejected rows are listed with their row number and reasons.

The format comes from the file extension unless --format is given.`,
		Example: `  toolhub import tools.xlsx
  toolhub import -c guides guides.csv --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, app, args[0])
		},
	}
	globals.AddCollectionFlag(cmd)
	cmd.Flags().String("format", "", "File format: xlsx, csv, yaml (default from extension)")
	cmd.Flags().Bool("dry-run", false, "Validate without storing")
	return cmd
}

func runImport(cmd *cobra.Command, app application.Application, path string) error {
	kind, err := globals.ParseCollection(cmd)
	if err != nil {
		return err
	}
	format, err := resolveFormat(cmdutil.MustGetString(cmd, "format"), path)
	if err != nil {
		return err
	}
	if !format.Importable() {
		return errors.NewValidationError("format", format, "cannot be imported")
	}
	dryRun := cmdutil.MustGetBool(cmd, "dry-run")

	f, err := os.Open(path)
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	items, err := transfer.Import(f, format, kind)
	if err != nil {
		return err
	}
	report := transfer.ValidateBatch(items)
	summary := Summary{
		File:    path,
		Format:  format,
		IDs:     []string{},
		Invalid: report.Invalid,
		DryRun:  dryRun,
	}

	if !dryRun && len(report.Valid) > 0 {
		s, err := app.Store()
		if err != nil {
			return err
		}
		for _, item := range report.Valid {
			saved, err := s.Put(cmd.Context(), kind.Collection(), item)
			if err != nil {
				return fmt.Errorf("storing %q: %w", item.Name, err)
			}
			summary.IDs = append(summary.IDs, saved.ID)
		}
	}
	summary.Imported = len(summary.IDs)

	app.Logger().Info().
		Str("file", path).
		Str("format", string(format)).
		Int("imported", summary.Imported).
		Int("invalid", len(summary.Invalid)).
		Bool("dry_run", dryRun).
		Msg("Import finished")

	w := cmd.OutOrStdout()
	outFmt := output.DetectFormat(app.OutputFormat())
	if !outFmt.IsTable() {
		return output.Print(w, outFmt, summary, nil)
	}

	if dryRun {
		_, _ = fmt.Fprintf(w, "%s %d of %d rows valid (dry run, nothing stored)\n", emoji.Info, len(report.Valid), len(items))
	} else {
		_, _ = fmt.Fprintf(w, "%s Imported %d of %d rows into %s\n", emoji.Success, summary.Imported, len(items), kind.Collection())
	}
	if len(summary.Invalid) > 0 {
		_, _ = fmt.Fprintf(w, "%s %d rows rejected:\n", emoji.Error, len(summary.Invalid))
		return output.Print(w, outFmt, nil, func(bool) table.Data {
			return table.RejectedToTableData(summary.Invalid)
		})
	}
	return nil
}

// NewExportCommand creates the export command.
func NewExportCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "management",
		Short:   "Export a collection as a spreadsheet, CSV, YAML or Markdown",
		Example: `  toolhub export                          # tools_export_<date>.xlsx
  toolhub export -c guides --format md --out -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, app)
		},
	}
	globals.AddCollectionFlag(cmd)
	cmd.Flags().String("format", string(transfer.FormatXLSX), "File format: xlsx, csv, yaml, md")
	cmd.Flags().String("out", "", "Output file, or - for stdout (default tools_export_<date>.<ext>)")
	return cmd
}

func runExport(cmd *cobra.Command, app application.Application) error {
	kind, err := globals.ParseCollection(cmd)
	if err != nil {
		return err
	}
	format, ok := transfer.ParseFormat(cmdutil.MustGetString(cmd, "format"))
	if !ok {
		return errors.NewValidationError("format", cmdutil.MustGetString(cmd, "format"), "must be xlsx, csv, yaml or md")
	}
	s, err := app.Store()
	if err != nil {
		return err
	}
	items, err := s.FetchAll(cmd.Context(), kind.Collection())
	if err != nil {
		return err
	}

	out := cmdutil.MustGetString(cmd, "out")
	if out == "" {
		out = transfer.Filename(kind.Collection(), format, analytics.DayKey(time.Now()))
	}
	err = write(cmd.OutOrStdout(), out, func(w io.Writer) error {
		return transfer.Export(w, format, kind, items)
	})
	if err != nil {
		return err
	}
	if out != "-" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d %s to %s\n", emoji.Success, len(items), kind.Collection(), out)
	}
	return nil
}

// NewTemplateCommand creates the template command.
func NewTemplateCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		GroupID: "management",
		Short:   "Write an import spreadsheet with headers and one sample row",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := globals.ParseCollection(cmd)
			if err != nil {
				return err
			}
			out := cmdutil.MustGetString(cmd, "out")
			if out == "" {
				out = kind.Collection() + "_template.xlsx"
			}
			if err := write(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return transfer.WriteTemplate(w, kind)
			}); err != nil {
				return err
			}
			app.Logger().Debug().Str("file", out).Msg("Template written")
			if out != "-" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Template written to %s\n", emoji.Success, out)
			}
			return nil
		},
	}
	globals.AddCollectionFlag(cmd)
	cmd.Flags().String("out", "", "Output file, or - for stdout (default <collection>_template.xlsx)")
	return cmd
}

// write renders into memory first so a failed export leaves no partial file.
func write(stdout io.Writer, path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if path == "-" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// resolveFormat prefers the explicit format, then the file extension.
func resolveFormat(explicit, path string) (transfer.Format, error) {
	name := explicit
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	format, ok := transfer.ParseFormat(name)
	if !ok {
		return "", errors.NewValidationError("format", name, "must be xlsx, csv or yaml")
	}
	return format, nil
}
