package insights

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type recordingCompleter struct {
	prompts []string
	reply   string
	err     error
}

func (c *recordingCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.reply, c.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	donations := []*types.Donation{
		{Amount: 500, Date: day(2024, 1, 15), Type: "Credit Card"},
		{Amount: 1000, Date: day(2024, 2, 20), Type: "Bank Transfer"},
		{Amount: 250, Date: day(2024, 3, 5), Type: "Check"},
		{Amount: 100, Date: day(2023, 6, 1), Type: "Credit Card"},
		{Amount: 50, Date: day(2023, 5, 1), Type: "Cash"},
		{Amount: 25, Date: day(2023, 4, 1), Type: "Cash"},
	}

	summary := Summarize(donations)

	assert.Equal(t, 6, summary.TotalDonations)
	assert.InDelta(t, 1925, summary.TotalAmount, 0.001)
	assert.InDelta(t, 320.833, summary.AverageDonation, 0.001)
	require.NotNil(t, summary.LastDonationDate)
	assert.Equal(t, day(2024, 3, 5), *summary.LastDonationDate)
	assert.Equal(t, []string{"Check", "Bank Transfer", "Credit Card", "Cash"}, summary.DonationTypes)
	require.Len(t, summary.RecentDonations, 5)
	assert.Equal(t, 250.0, summary.RecentDonations[0].Amount)
	assert.Equal(t, day(2023, 5, 1), summary.RecentDonations[4].Date)

	// input order is left alone
	assert.Equal(t, 500.0, donations[0].Amount)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.TotalDonations)
	assert.Zero(t, summary.AverageDonation)
	assert.Nil(t, summary.LastDonationDate)
	assert.NotNil(t, summary.DonationTypes)
	assert.Empty(t, summary.RecentDonations)

	out, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"lastDonationDate":null`)
	assert.Contains(t, string(out), `"donationTypes":[]`)
}

func TestBuildPrompt(t *testing.T) {
	donor := &types.Donor{
		Name:    "John Smith",
		Email:   utils.StringPtr("john.smith@email.com"),
		Phone:   utils.StringPtr("(555) 123-4567"),
		Address: utils.StringPtr("123 Main Street"),
		City:    utils.StringPtr("New York"),
		State:   utils.StringPtr("NY"),
		ZipCode: utils.StringPtr("10001"),
	}
	summary := Summarize([]*types.Donation{
		{Amount: 500, Date: day(2024, 1, 15), Type: "Credit Card"},
		{Amount: 1000.5, Date: day(2024, 2, 20), Type: "Bank Transfer"},
	})

	prompt := BuildPrompt(donor, summary)

	assert.True(t, strings.HasPrefix(prompt, "Analyze the following donor profile"))
	assert.Contains(t, prompt, "Donor Name: John Smith\n")
	assert.Contains(t, prompt, "Address: 123 Main Street, New York, NY 10001\n")
	assert.Contains(t, prompt, "Total Amount: $1500.50\n")
	assert.Contains(t, prompt, "Average Donation: $750.25\n")
	assert.Contains(t, prompt, "Last Donation: 2/20/2024\n")
	assert.Contains(t, prompt, "Donation Types: Bank Transfer, Credit Card\n")
	assert.Contains(t, prompt, "- $1000.5 on 2/20/2024 (Bank Transfer)\n- $500 on 1/15/2024 (Credit Card)")
	assert.True(t, strings.HasSuffix(prompt, "4. Suggested next steps for outreach"))
}

func TestBuildPromptNoDonations(t *testing.T) {
	prompt := BuildPrompt(&types.Donor{Name: "David Williams"}, Summarize(nil))

	assert.Contains(t, prompt, "Email: N/A\n")
	assert.Contains(t, prompt, "Address: N/A, ,  \n")
	assert.Contains(t, prompt, "Total Donations: 0\n")
	assert.Contains(t, prompt, "Total Amount: $0.00\n")
	assert.Contains(t, prompt, "Last Donation: Never\n")
}

func TestGeneratorAlwaysPrompts(t *testing.T) {
	completer := &recordingCompleter{reply: "Reach out soon."}
	g := NewGenerator(completer)

	donor := &types.Donor{ID: "d1", Name: "New Donor", Email: utils.StringPtr("new@email.com")}
	insight, err := g.Generate(context.Background(), donor)
	require.NoError(t, err)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "Last Donation: Never")
	assert.Equal(t, "Reach out soon.", insight.Insights)
	assert.Equal(t, "d1", insight.Donor.ID)
	assert.Zero(t, insight.DonationSummary.TotalDonations)
}

func TestGeneratorErrors(t *testing.T) {
	_, err := NewGenerator(nil).Generate(context.Background(), &types.Donor{ID: "d1"})
	assert.ErrorIs(t, err, types.ErrInsightsDisabled)

	boom := errors.New("upstream down")
	_, err = NewGenerator(&recordingCompleter{err: boom}).Generate(context.Background(), &types.Donor{ID: "d1"})
	assert.ErrorIs(t, err, boom)
}

func TestAnthropicClientComplete(t *testing.T) {
	var captured *http.Request
	var payload anthropicRequest

	client, err := NewAnthropicClient(AnthropicOptions{
		APIKey:  "test-key",
		BaseURL: "https://anthropic.test/",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			captured = r
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				return nil, err
			}
			return jsonResponse(http.StatusOK, `{"content":[{"type":"text","text":"## Summary\nSteady giver."}]}`), nil
		})},
	})
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "## Summary\nSteady giver.", text)

	require.NotNil(t, captured)
	assert.Equal(t, "https://anthropic.test/v1/messages", captured.URL.String())
	assert.Equal(t, "test-key", captured.Header.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", captured.Header.Get("anthropic-version"))
	assert.Equal(t, "claude-3-5-sonnet-20241022", payload.Model)
	assert.Equal(t, 1024, payload.MaxTokens)
	require.Len(t, payload.Messages, 1)
	assert.Equal(t, "user", payload.Messages[0].Role)
	assert.Equal(t, "hello", payload.Messages[0].Content)
}

func TestAnthropicClientNonTextBlock(t *testing.T) {
	client, err := NewAnthropicClient(AnthropicOptions{
		APIKey: "k",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"content":[{"type":"tool_use"}]}`), nil
		})},
	})
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestAnthropicClientFailures(t *testing.T) {
	_, err := NewAnthropicClient(AnthropicOptions{APIKey: "  "})
	assert.Error(t, err)

	client, err := NewAnthropicClient(AnthropicOptions{
		APIKey: "k",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`), nil
		})},
	})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x-api-key")

	client, err = NewAnthropicClient(AnthropicOptions{
		APIKey: "k",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: refused")
		})},
	})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hello")
	assert.Error(t, err)
}
