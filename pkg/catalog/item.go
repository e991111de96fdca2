// Package catalog defines the items listed in the toolhub directory.
//
// Tools and guides share one shape, Item, and are told apart by Kind.
// Guide-only fields stay empty on tools and the other way round.
package catalog

import (
	"slices"
	"time"
)

// Item is a tool or guide in the directory.
type Item struct {
	ID   string `json:"id" yaml:"id"`     // Opaque identifier, assigned on creation
	Kind Kind   `json:"kind" yaml:"kind"` // tool or guide

	Name       string `json:"name" yaml:"name"`                                  // Tool name or guide title (required)
	Company    string `json:"company,omitempty" yaml:"company,omitempty"`        // Company for tools, author for guides
	ShortDesc  string `json:"shortDesc,omitempty" yaml:"short_desc,omitempty"`   // One-line description shown on cards
	FullDesc   string `json:"fullDesc,omitempty" yaml:"full_desc,omitempty"`     // Long description shown on detail pages
	Website    string `json:"website,omitempty" yaml:"website,omitempty"`        // Product URL
	ImageURL   string `json:"imageUrl,omitempty" yaml:"image_url,omitempty"`     // Logo or cover image
	LaunchYear int    `json:"launchYear,omitempty" yaml:"launch_year,omitempty"` // Year the tool launched

	Categories []string `json:"categories" yaml:"categories"`
	Tags       []string `json:"tags" yaml:"tags"`
	UseCases   []string `json:"useCases" yaml:"use_cases"`
	Platforms  []string `json:"platforms" yaml:"platforms"`

	PricingModel PricingModel `json:"pricingModel,omitempty" yaml:"pricing_model,omitempty"`
	AccessType   AccessType   `json:"accessType,omitempty" yaml:"access_type,omitempty"`
	Price        float64      `json:"price" yaml:"price"`

	Locked     bool   `json:"locked" yaml:"locked"`
	LockReason string `json:"lockReason,omitempty" yaml:"lock_reason,omitempty"`
	Public     bool   `json:"isPublic" yaml:"public"`

	// Guide fields
	GuideType   GuideType  `json:"type,omitempty" yaml:"type,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Content     string     `json:"content,omitempty" yaml:"content,omitempty"`
	ExternalURL string     `json:"externalUrl,omitempty" yaml:"external_url,omitempty"`
	RatingSum   float64    `json:"ratingSum,omitempty" yaml:"rating_sum,omitempty"`
	RatingCount int        `json:"ratingCount,omitempty" yaml:"rating_count,omitempty"`

	Views  int64 `json:"views" yaml:"views"`
	Clicks int64 `json:"clicks" yaml:"clicks"`

	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// IsFree reports whether the item should carry a "free" badge.
// FREE_PAID counts as free.
func (i Item) IsFree() bool {
	return i.PricingModel.IsFree()
}

// Rating returns the average guide rating, or 0 without ratings.
func (i Item) Rating() float64 {
	if i.RatingCount <= 0 {
		return 0
	}
	return i.RatingSum / float64(i.RatingCount)
}

// Normalize enforces the slice and counter invariants: list fields are
// never nil and counters are never negative.
func (i *Item) Normalize() {
	i.Categories = nonNil(i.Categories)
	i.Tags = nonNil(i.Tags)
	i.UseCases = nonNil(i.UseCases)
	i.Platforms = nonNil(i.Platforms)
	if i.Views < 0 {
		i.Views = 0
	}
	if i.Clicks < 0 {
		i.Clicks = 0
	}
	if i.RatingCount < 0 {
		i.RatingCount = 0
	}
	if i.Kind == "" {
		i.Kind = KindTool
	}
}

// Clone returns a copy that shares no slices with i.
func (i Item) Clone() Item {
	c := i
	c.Categories = slices.Clone(i.Categories)
	c.Tags = slices.Clone(i.Tags)
	c.UseCases = slices.Clone(i.UseCases)
	c.Platforms = slices.Clone(i.Platforms)
	c.Normalize()
	return c
}

// Values returns the item's values for a list facet field.
func (i Item) Values(field Field) []string {
	switch field {
	case FieldName:
		return []string{i.Name}
	case FieldCompany:
		return []string{i.Company}
	case FieldShortDesc:
		return []string{i.ShortDesc}
	case FieldFullDesc:
		return []string{i.FullDesc}
	case FieldCategories:
		return i.Categories
	case FieldTags:
		return i.Tags
	case FieldUseCases:
		return i.UseCases
	case FieldPlatforms:
		return i.Platforms
	case FieldPricingModel:
		if i.PricingModel == "" {
			return nil
		}
		return []string{string(i.PricingModel)}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
