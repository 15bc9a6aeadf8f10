// Package insights turns a donor's giving history into a prompt and asks a
// language model for engagement advice.
package insights

import (
	"context"
	"fmt"

	"donorconnect/pkg/types"
)

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	completer Completer
}

// NewGenerator accepts a nil completer, in which case Generate reports
// types.ErrInsightsDisabled.
func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

func (g *Generator) Enabled() bool {
	return g != nil && g.completer != nil
}

// Generate always sends the prompt, including for donors with no donations.
func (g *Generator) Generate(ctx context.Context, donor *types.Donor) (*types.Insight, error) {
	if !g.Enabled() {
		return nil, types.ErrInsightsDisabled
	}

	summary := Summarize(donor.Donations)

	text, err := g.completer.Complete(ctx, BuildPrompt(donor, summary))
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights for donor %s: %w", donor.ID, err)
	}

	return &types.Insight{
		Donor:           donor.Summary(),
		DonationSummary: summary,
		Insights:        text,
	}, nil
}
