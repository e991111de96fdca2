package search

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/cmd/globals"
	"github.com/agentstation/toolhub/internal/cmd/output"
	"github.com/agentstation/toolhub/internal/cmd/table"
)

// NewFacetsCommand creates the facets command, which lists the distinct
// filter values of a collection with their item counts.
func NewFacetsCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "facets",
		GroupID: "core",
		Short:   "Show filter values and their counts",
		Example: `  toolhub facets
  toolhub facets -c guides -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := globals.ParseCollection(cmd)
			if err != nil {
				return err
			}
			snapshot, err := fetch(cmd, app, kind)
			if err != nil {
				return err
			}
			summary := app.Engine(kind).Facets(snapshot)
			return output.Print(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), summary,
				func(bool) table.Data { return table.FacetsToTableData(summary) })
		},
	}
	globals.AddCollectionFlag(cmd)
	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"show"},
		GroupID: "core",
		Short:   "Show one tool or guide",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := globals.ParseCollection(cmd)
			if err != nil {
				return err
			}
			s, err := app.Store()
			if err != nil {
				return err
			}
			item, err := s.Get(cmd.Context(), kind.Collection(), args[0])
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			if format.IsTable() {
				// One item reads better as YAML than as a one-row table.
				format = output.FormatYAML
			}
			return output.Print(cmd.OutOrStdout(), format, item, nil)
		},
	}
	globals.AddCollectionFlag(cmd)
	return cmd
}
