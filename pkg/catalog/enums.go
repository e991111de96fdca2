package catalog

import (
	"strings"
)

// Kind tells tools and guides apart.
type Kind string

const (
	KindTool  Kind = "tool"  // An AI product listing
	KindGuide Kind = "guide" // A kit, template or blueprint
)

// Collection names used by stores.
const (
	CollectionTools  = "tools"
	CollectionGuides = "guides"
)

// Collection returns the store collection holding items of this kind.
func (k Kind) Collection() string {
	if k == KindGuide {
		return CollectionGuides
	}
	return CollectionTools
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// KindForCollection maps a collection name back to its kind.
func KindForCollection(collection string) (Kind, bool) {
	switch strings.ToLower(collection) {
	case CollectionTools, string(KindTool):
		return KindTool, true
	case CollectionGuides, string(KindGuide):
		return KindGuide, true
	}
	return "", false
}

// Collections lists every known collection.
func Collections() []string {
	return []string{CollectionTools, CollectionGuides}
}

// PricingModel is how a tool charges.
type PricingModel string

const (
	PricingFree     PricingModel = "FREE"
	PricingPaid     PricingModel = "PAID"
	PricingFreePaid PricingModel = "FREE_PAID" // Free tier with paid upgrades
)

// IsFree reports whether the pricing model has a free tier.
// Both FREE and FREE_PAID are free.
func (p PricingModel) IsFree() bool {
	return p == PricingFree || p == PricingFreePaid
}

// IsValid reports whether p is a known pricing model.
func (p PricingModel) IsValid() bool {
	switch p {
	case PricingFree, PricingPaid, PricingFreePaid:
		return true
	}
	return false
}

// Label returns the human-readable form used in listings.
func (p PricingModel) Label() string {
	switch p {
	case PricingFree:
		return "Free"
	case PricingPaid:
		return "Paid"
	case PricingFreePaid:
		return "Freemium"
	}
	return ""
}

// ParsePricingModel accepts enum names and common spellings such as
// "freemium" or "free paid".
func ParsePricingModel(s string) (PricingModel, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(norm)
	switch norm {
	case "FREE":
		return PricingFree, true
	case "PAID":
		return PricingPaid, true
	case "FREE_PAID", "FREEMIUM", "FREE_AND_PAID":
		return PricingFreePaid, true
	}
	return "", false
}

// AccessType is how a guide or premium tool is unlocked.
type AccessType string

const (
	AccessFree            AccessType = "FREE"
	AccessSubscription    AccessType = "SUBSCRIPTION"
	AccessOneTimePurchase AccessType = "ONE_TIME_PURCHASE"
)

// IsValid reports whether a is a known access type.
func (a AccessType) IsValid() bool {
	switch a {
	case AccessFree, AccessSubscription, AccessOneTimePurchase:
		return true
	}
	return false
}

// ParseAccessType parses an access type, case-insensitively.
func ParseAccessType(s string) (AccessType, bool) {
	a := AccessType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")))
	return a, a.IsValid()
}

// GuideType is the format of a guide.
type GuideType string

const (
	GuideFreelancingKit GuideType = "Freelancing Kit"
	GuideTemplate       GuideType = "Template"
	GuideBlueprint      GuideType = "Blueprint"
)

// IsValid reports whether g is a known guide type.
func (g GuideType) IsValid() bool {
	switch g {
	case GuideFreelancingKit, GuideTemplate, GuideBlueprint:
		return true
	}
	return false
}

// Difficulty is the skill level a guide targets.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// IsValid reports whether d is a known difficulty.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Field names an item field that searches and facets can read.
type Field string

const (
	FieldName         Field = "name"
	FieldCompany      Field = "company"
	FieldShortDesc    Field = "shortDesc"
	FieldFullDesc     Field = "fullDesc"
	FieldCategories   Field = "categories"
	FieldTags         Field = "tags"
	FieldUseCases     Field = "useCases"
	FieldPlatforms    Field = "platforms"
	FieldPricingModel Field = "pricingModel"
)

// ParseField parses a field name. Matching ignores case.
func ParseField(s string) (Field, bool) {
	for _, f := range []Field{
		FieldName, FieldCompany, FieldShortDesc, FieldFullDesc, FieldCategories,
		FieldTags, FieldUseCases, FieldPlatforms, FieldPricingModel,
	} {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, true
		}
	}
	return "", false
}
