// Package enrich fills in missing short descriptions with a text model.
package enrich

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/toolhub/internal/store"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
	"github.com/agentstation/toolhub/pkg/logging"
)

// Describer writes a one-sentence description of an item.
type Describer interface {
	Describe(ctx context.Context, item catalog.Item) (string, error)
}

// DescriberFunc adapts a function to Describer.
type DescriberFunc func(ctx context.Context, item catalog.Item) (string, error)

// Describe calls f.
func (f DescriberFunc) Describe(ctx context.Context, item catalog.Item) (string, error) {
	return f(ctx, item)
}

// Failure is an item the describer or the store could not handle.
type Failure struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Report summarizes a run.
type Report struct {
	Updated []string  `json:"updated"`
	Skipped int       `json:"skipped"`
	Failed  []Failure `json:"failed"`
}

// Run describes every item in the collection whose short description is
// empty and stores the result. At most concurrency items are in flight.
// A failing item is recorded and does not stop the others; only a failed
// snapshot fetch or a cancelled context ends the run with an error.
func Run(ctx context.Context, s store.Store, collection string, d Describer, concurrency int) (Report, error) {
	report := Report{Updated: []string{}, Failed: []Failure{}}
	if d == nil {
		return report, errors.NewValidationError("describer", nil, "is required")
	}
	if concurrency <= 0 {
		concurrency = constants.MaxConcurrentEnrich
	}
	logger := logging.FromContext(ctx).With().
		Str("collection", collection).
		Str("operation", "enrich").
		Logger()

	items, err := s.FetchAll(ctx, collection)
	if err != nil {
		return report, err
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(concurrency)

	for _, item := range items {
		if strings.TrimSpace(item.ShortDesc) != "" {
			report.Skipped++
			continue
		}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			updated, err := describeOne(ctx, s, collection, d, item)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn().Err(err).Str("id", item.ID).Msg("enrichment failed")
				report.Failed = append(report.Failed, Failure{ID: item.ID, Name: item.Name, Error: err.Error()})
				return nil
			}
			logger.Debug().Str("id", item.ID).Msg("description added")
			report.Updated = append(report.Updated, updated.ID)
			return nil
		})
	}
	_ = g.Wait()

	logger.Info().
		Int("updated", len(report.Updated)).
		Int("skipped", report.Skipped).
		Int("failed", len(report.Failed)).
		Msg("enrichment finished")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func describeOne(ctx context.Context, s store.Store, collection string, d Describer, item catalog.Item) (catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.EnrichTimeout)
	defer cancel()

	desc, err := d.Describe(ctx, item)
	if err != nil {
		return item, err
	}
	desc = cleanDescription(desc)
	if desc == "" {
		return item, errors.NewValidationError("shortDesc", desc, "model returned an empty description")
	}
	item.ShortDesc = desc
	return s.Put(ctx, collection, item)
}

// cleanDescription keeps the first non-blank line without wrapping quotes
// or markdown emphasis.
func cleanDescription(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "\"'`*_ ")
		if line != "" {
			return line
		}
	}
	return ""
}
