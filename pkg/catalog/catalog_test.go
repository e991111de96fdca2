package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/toolhub/pkg/errors"
)

func validTool() Item {
	return Item{
		ID:           "t1",
		Kind:         KindTool,
		Name:         "Alpha",
		Website:      "https://alpha.example.com",
		Categories:   []string{"Writing"},
		PricingModel: PricingFreePaid,
	}
}

func TestPricingModelIsFree(t *testing.T) {
	tests := []struct {
		pricing PricingModel
		want    bool
	}{
		{PricingFree, true},
		{PricingFreePaid, true},
		{PricingPaid, false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.pricing), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pricing.IsFree())
			assert.Equal(t, tt.want, Item{PricingModel: tt.pricing}.IsFree())
		})
	}
}

func TestParsePricingModel(t *testing.T) {
	tests := []struct {
		in   string
		want PricingModel
		ok   bool
	}{
		{"free", PricingFree, true},
		{" PAID ", PricingPaid, true},
		{"Freemium", PricingFreePaid, true},
		{"free-paid", PricingFreePaid, true},
		{"FREE_PAID", PricingFreePaid, true},
		{"trial", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePricingModel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindForCollection(t *testing.T) {
	k, ok := KindForCollection("guides")
	require.True(t, ok)
	assert.Equal(t, KindGuide, k)
	assert.Equal(t, CollectionGuides, k.Collection())

	k, ok = KindForCollection("Tools")
	require.True(t, ok)
	assert.Equal(t, CollectionTools, k.Collection())

	_, ok = KindForCollection("prompts")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	item := Item{Name: "x", Views: -4, Clicks: -1}
	item.Normalize()

	assert.NotNil(t, item.Categories)
	assert.NotNil(t, item.Tags)
	assert.NotNil(t, item.UseCases)
	assert.NotNil(t, item.Platforms)
	assert.Zero(t, item.Views)
	assert.Zero(t, item.Clicks)
	assert.Equal(t, KindTool, item.Kind)
}

func TestCloneSharesNoSlices(t *testing.T) {
	orig := validTool()
	c := orig.Clone()
	c.Categories[0] = "Image"
	assert.Equal(t, "Writing", orig.Categories[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Item)
		fields []string
	}{
		{"valid tool", func(*Item) {}, nil},
		{"missing name", func(i *Item) { i.Name = "  " }, []string{"name"}},
		{"missing website", func(i *Item) { i.Website = "" }, []string{"website"}},
		{"relative website", func(i *Item) { i.Website = "alpha.example.com" }, []string{"website"}},
		{"no categories", func(i *Item) { i.Categories = nil }, []string{"categories"}},
		{"bad pricing", func(i *Item) { i.PricingModel = "CHEAP" }, []string{"pricingModel"}},
		{"negative price", func(i *Item) { i.Price = -1 }, []string{"price"}},
		{"bad access", func(i *Item) { i.AccessType = "RENTAL" }, []string{"accessType"}},
		{"several problems", func(i *Item) { i.Name = ""; i.Website = "" }, []string{"name", "website"}},
		{"guide without website", func(i *Item) {
			i.Kind = KindGuide
			i.Website = ""
			i.Categories = nil
			i.PricingModel = ""
		}, nil},
		{"guide bad difficulty", func(i *Item) { i.Kind = KindGuide; i.Difficulty = "Expert" }, []string{"difficulty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validTool()
			tt.mutate(&item)

			problems := item.Problems()
			var fields []string
			for _, p := range problems {
				var verr *errors.ValidationError
				require.True(t, errors.As(p, &verr))
				fields = append(fields, verr.Field)
			}
			assert.Equal(t, tt.fields, fields)

			if tt.fields == nil {
				assert.NoError(t, item.Validate())
			} else {
				assert.True(t, errors.IsValidationError(item.Validate()))
			}
		})
	}
}

func TestIDGenerator(t *testing.T) {
	gen, err := NewIDGenerator(1)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for range 1000 {
		id := gen.Next()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	_, err = NewIDGenerator(5000)
	assert.Error(t, err)
}

func TestItemsOrder(t *testing.T) {
	items := NewItems(
		Item{ID: "a", Name: "Alpha"},
		Item{ID: "b", Name: "Beta"},
		Item{ID: "c", Name: "Gamma"},
	)
	require.NoError(t, items.Set(Item{ID: "b", Name: "Beta 2"}))

	list := items.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Alpha", "Beta 2", "Gamma"}, []string{list[0].Name, list[1].Name, list[2].Name})

	assert.ErrorIs(t, items.Add(Item{ID: "a"}), errors.ErrAlreadyExists)
	assert.True(t, items.Delete("b"))
	assert.False(t, items.Delete("b"))
	assert.Equal(t, 2, items.Len())

	page := items.After("a", 5)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].ID)
	assert.Empty(t, items.After("missing", 5))
	assert.Len(t, items.After("", 1), 1)
}

func TestItemsUpdate(t *testing.T) {
	items := NewItems(Item{ID: "a", Views: 1})
	got, ok := items.Update("a", func(i *Item) { i.Views++ })
	require.True(t, ok)
	assert.EqualValues(t, 2, got.Views)

	_, ok = items.Update("zzz", func(*Item) {})
	assert.False(t, ok)
}

func TestItemsConcurrent(t *testing.T) {
	items := NewItems(Item{ID: "a"})
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			items.Update("a", func(i *Item) { i.Views++ })
		}()
		go func() {
			defer wg.Done()
			_ = items.List()
		}()
	}
	wg.Wait()

	got, _ := items.Get("a")
	assert.EqualValues(t, 50, got.Views)
}
