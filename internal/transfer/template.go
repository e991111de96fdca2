package transfer

import "github.com/agentstation/toolhub/pkg/catalog"

var sampleTool = catalog.Item{
	Kind:         catalog.KindTool,
	Name:         "ChatGPT",
	ShortDesc:    "AI conversational agent for writing, coding, and brainstorming.",
	FullDesc:     "ChatGPT is an advanced language model developed by OpenAI. It can generate human-like text, answer questions, translate languages, and even write code.",
	Website:      "https://chat.openai.com",
	Categories:   []string{"Writing", "Productivity", "Coding"},
	UseCases:     []string{"Content Creation", "Code Generation", "Research"},
	PricingModel: catalog.PricingFreePaid,
	AccessType:   catalog.AccessSubscription,
	Platforms:    []string{"Web", "App"},
	Public:       true,
}

var sampleGuide = catalog.Item{
	Kind:       catalog.KindGuide,
	Name:       "Freelancing Starter Kit",
	GuideType:  catalog.GuideFreelancingKit,
	Categories: []string{"Business"},
	Content:    "# Introduction\nThis kit helps you start...",
	Difficulty: catalog.DifficultyBeginner,
	AccessType: catalog.AccessFree,
	Tags:       []string{"freelance", "business", "money"},
	Public:     true,
}

// Sample returns the example row shown in the import template.
func Sample(kind catalog.Kind) catalog.Item {
	if kind == catalog.KindGuide {
		return sampleGuide.Clone()
	}
	return sampleTool.Clone()
}
