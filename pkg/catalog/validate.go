package catalog

import (
	"net/url"
	"strings"

	"github.com/agentstation/toolhub/pkg/errors"
)

// Validate checks the item and reports every problem found, joined into one
// error. Each problem is a *errors.ValidationError.
func (i Item) Validate() error {
	return errors.Join(i.Problems()...)
}

// Problems returns each validation failure as a separate error.
func (i Item) Problems() []error {
	var problems []error
	add := func(field string, value any, msg string) {
		problems = append(problems, errors.NewValidationError(field, value, msg))
	}

	if strings.TrimSpace(i.Name) == "" {
		add("name", i.Name, "is required")
	}

	switch i.Kind {
	case KindTool, "":
		if strings.TrimSpace(i.Website) == "" {
			add("website", i.Website, "is required")
		} else if !isAbsoluteURL(i.Website) {
			add("website", i.Website, "must be a valid URL")
		}
		if len(i.Categories) == 0 {
			add("categories", i.Categories, "at least one category is required")
		}
		if !i.PricingModel.IsValid() {
			add("pricingModel", i.PricingModel, "must be FREE, PAID or FREE_PAID")
		}
	case KindGuide:
		if i.GuideType != "" && !i.GuideType.IsValid() {
			add("type", i.GuideType, "must be Freelancing Kit, Template or Blueprint")
		}
		if i.Difficulty != "" && !i.Difficulty.IsValid() {
			add("difficulty", i.Difficulty, "must be Beginner, Intermediate or Advanced")
		}
		if i.PricingModel != "" && !i.PricingModel.IsValid() {
			add("pricingModel", i.PricingModel, "must be FREE, PAID or FREE_PAID")
		}
		if i.ExternalURL != "" && !isAbsoluteURL(i.ExternalURL) {
			add("externalUrl", i.ExternalURL, "must be a valid URL")
		}
	default:
		add("kind", i.Kind, "must be tool or guide")
	}

	if i.AccessType != "" && !i.AccessType.IsValid() {
		add("accessType", i.AccessType, "must be FREE, SUBSCRIPTION or ONE_TIME_PURCHASE")
	}
	if i.Price < 0 {
		add("price", i.Price, "must be a non-negative number")
	}
	if i.Views < 0 || i.Clicks < 0 {
		add("views", i.Views, "counters cannot be negative")
	}
	return problems
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && u.Scheme != "" && u.Host != ""
}
