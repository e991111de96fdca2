package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/enrich"
	"github.com/agentstation/toolhub/internal/store"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

func TestEnrich(t *testing.T) {
	mem, err := store.NewMemory()
	require.NoError(t, err)
	ctx := context.Background()
	for _, item := range []catalog.Item{
		{Name: "ChatGPT", Website: "https://chat.openai.com", Categories: []string{"Writing"}, PricingModel: catalog.PricingFreePaid},
		{Name: "Claude", Website: "https://claude.ai", Categories: []string{"Writing"}, PricingModel: catalog.PricingFree, ShortDesc: "Already here"},
	} {
		_, err := mem.Put(ctx, catalog.CollectionTools, item)
		require.NoError(t, err)
	}

	mock := &application.Mock{
		StoreFunc:        func() (store.Store, error) { return mem, nil },
		OutputFormatFunc: func() string { return "json" },
		GeminiAPIKeyFunc: func() string { return "key" },
	}
	var gotModel string
	factory := func(_ context.Context, apiKey, model string) (enrich.Describer, error) {
		assert.Equal(t, "key", apiKey)
		gotModel = model
		return enrich.DescriberFunc(func(_ context.Context, item catalog.Item) (string, error) {
			return fmt.Sprintf("%s helps you write.", item.Name), nil
		}), nil
	}

	cmd := newCommand(mock, factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--model", "gemini-test"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	var report enrich.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Len(t, report.Updated, 1)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, "gemini-test", gotModel)

	items, err := mem.FetchAll(ctx, catalog.CollectionTools)
	require.NoError(t, err)
	for _, it := range items {
		assert.NotEmpty(t, it.ShortDesc, it.Name)
	}
}

func TestEnrichRequiresKey(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs(nil)
	err := cmd.ExecuteContext(context.Background())
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
