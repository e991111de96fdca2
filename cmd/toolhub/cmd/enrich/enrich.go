// Package enrich provides the command that writes missing short
// descriptions with Gemini.
package enrich

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/cmd/emoji"
	"github.com/agentstation/toolhub/internal/cmd/globals"
	"github.com/agentstation/toolhub/internal/cmd/output"
	"github.com/agentstation/toolhub/internal/enrich"
	"github.com/agentstation/toolhub/pkg/constants"
)

// describerFactory builds the describer for a run.
type describerFactory func(ctx context.Context, apiKey, model string) (enrich.Describer, error)

func gemini(ctx context.Context, apiKey, model string) (enrich.Describer, error) {
	return enrich.NewGemini(ctx, apiKey, model)
}

// NewCommand creates the enrich command.
func NewCommand(app application.Application) *cobra.Command {
	return newCommand(app, gemini)
}

func newCommand(app application.Application, newDescriber describerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "enrich",
		GroupID: "management",
		Short:   "Generate missing short descriptions with Gemini",
		Long: `Enrich asks Gemini for a one-sentence description of every item whose
short description is empty and stores the answer. Items that already
have a description are skipped. A failure on one item does not stop
the others.

Requires GEMINI_API_KEY (or GOOGLE_API_KEY).`,
		Example: `  toolhub enrich
  toolhub enrich -c guides --concurrency 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := globals.ParseCollection(cmd)
			if err != nil {
				return err
			}
			concurrency, err := cmd.Flags().GetInt("concurrency")
			if err != nil {
				return err
			}
			model, err := cmd.Flags().GetString("model")
			if err != nil {
				return err
			}
			if model == "" {
				model = app.GeminiModel()
			}

			d, err := newDescriber(cmd.Context(), app.GeminiAPIKey(), model)
			if err != nil {
				return err
			}
			s, err := app.Store()
			if err != nil {
				return err
			}

			report, err := enrich.Run(cmd.Context(), s, kind.Collection(), d, concurrency)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			format := output.DetectFormat(app.OutputFormat())
			if !format.IsTable() {
				return output.Print(w, format, report, nil)
			}
			_, _ = fmt.Fprintf(w, "%s %d updated, %d already described\n", emoji.Success, len(report.Updated), report.Skipped)
			for _, f := range report.Failed {
				_, _ = fmt.Fprintf(w, "%s %s: %s\n", emoji.Error, f.Name, f.Error)
			}
			return nil
		},
	}
	globals.AddCollectionFlag(cmd)
	cmd.Flags().Int("concurrency", constants.MaxConcurrentEnrich, "Descriptions generated at once")
	cmd.Flags().String("model", "", "Gemini model (default $GEMINI_MODEL or "+enrich.DefaultModel+")")
	return cmd
}
