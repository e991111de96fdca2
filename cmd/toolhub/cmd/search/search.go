// Package search provides the commands that query the catalog from the
// command line.
package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/cmd/globals"
	"github.com/agentstation/toolhub/internal/cmd/output"
	"github.com/agentstation/toolhub/internal/cmd/table"
	"github.com/agentstation/toolhub/internal/server/filter"
	"github.com/agentstation/toolhub/pkg/catalog"
)

// NewCommand creates the search command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search [term...]",
		Aliases: []string{"list", "ls"},
		GroupID: "core",
		Short:   "Search and filter tools or guides",
		Long: `Search matches the term against names and descriptions, then applies
facet filters, sorting and paging the same way the HTTP API does.

Values within one facet are OR'd. Facets are AND'd with each other.`,
		Example: `  toolhub search                                  # First page of tools
  toolhub search chat --category Writing          # Writing tools matching "chat"
  toolhub search --pricing FREE,FREE_PAID --sort newest
  toolhub search -c guides --category Freelancing
  toolhub search --cursor <nextCursor>            # Next page`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, app, strings.Join(args, " "))
		},
	}
	globals.AddCollectionFlag(cmd)
	globals.AddQueryFlags(cmd)
	return cmd
}

func runSearch(cmd *cobra.Command, app application.Application, term string) error {
	kind, err := globals.ParseCollection(cmd)
	if err != nil {
		return err
	}
	req, err := filter.Parse(globals.QueryValues(cmd, term))
	if err != nil {
		return err
	}
	snapshot, err := fetch(cmd, app, kind)
	if err != nil {
		return err
	}

	result := app.Engine(kind).Search(snapshot, req)
	app.Logger().Debug().
		Str("collection", kind.Collection()).
		Int("matched", result.TotalMatched).
		Bool("has_more", result.HasMore).
		Msg("Search complete")

	format := output.DetectFormat(app.OutputFormat())
	if err := output.Print(cmd.OutOrStdout(), format, result, func(wide bool) table.Data {
		return table.ItemsToTableData(kind, result.Items, wide)
	}); err != nil {
		return err
	}
	if format.IsTable() {
		printFooter(cmd, result.TotalMatched, len(result.Items), result.NextCursor)
	}
	return nil
}

func printFooter(cmd *cobra.Command, total, shown int, next string) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "\n%d of %d shown\n", shown, total)
	if next != "" {
		_, _ = fmt.Fprintf(w, "Next page: --cursor %s\n", next)
	}
}

func fetch(cmd *cobra.Command, app application.Application, kind catalog.Kind) ([]catalog.Item, error) {
	s, err := app.Store()
	if err != nil {
		return nil, err
	}
	return s.FetchAll(cmd.Context(), kind.Collection())
}
