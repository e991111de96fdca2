package enrich

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini describes items with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini describer. The API key is required.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.NewConfigError("enrich", "a Gemini API key is required", nil)
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewConfigError("enrich", "failed to create Gemini client", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Model returns the model name in use.
func (g *Gemini) Model() string {
	return g.model
}

// Describe implements Describer.
func (g *Gemini) Describe(ctx context.Context, item catalog.Item) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(item)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", g.model, err)
	}
	return resp.Text(), nil
}

// Prompt builds the instruction sent for an item.
func Prompt(item catalog.Item) string {
	var b strings.Builder
	noun := "AI tool"
	if item.Kind == catalog.KindGuide {
		noun = "guide for freelancers"
	}
	fmt.Fprintf(&b, "Write one plain sentence, under 20 words, describing the %s %q for a directory listing.\n", noun, item.Name)
	if item.Company != "" {
		fmt.Fprintf(&b, "Made by: %s\n", item.Company)
	}
	if item.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", item.Website)
	}
	if len(item.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(item.Categories, ", "))
	}
	if len(item.UseCases) > 0 {
		fmt.Fprintf(&b, "Use cases: %s\n", strings.Join(item.UseCases, ", "))
	}
	if item.FullDesc != "" {
		fmt.Fprintf(&b, "Details: %s\n", item.FullDesc)
	}
	b.WriteString("Reply with the sentence only.")
	return b.String()
}
