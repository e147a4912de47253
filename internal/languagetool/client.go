package languagetool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/config"
)

// Client talks to a LanguageTool server for German grammar and
// spelling checks.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewClient(cfg config.LanguageToolConfig, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// CheckResult is the parsed response from the /check endpoint.
type CheckResult struct {
	Matches []Match `json:"matches"`
}

// Match is one detected issue.
type Match struct {
	Message      string        `json:"message"`
	Offset       int           `json:"offset"`
	Length       int           `json:"length"`
	Context      MatchContext  `json:"context"`
	Replacements []Replacement `json:"replacements"`
	Rule         Rule          `json:"rule"`
}

type MatchContext struct {
	Text string `json:"text"`
}

type Replacement struct {
	Value string `json:"value"`
}

type Rule struct {
	ID       string       `json:"id"`
	Category RuleCategory `json:"category"`
}

type RuleCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Check submits text to the LanguageTool server and returns the
// detected issues.
func (c *Client) Check(ctx context.Context, text string) (*CheckResult, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", c.language)
	form.Set("enabledOnly", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("languagetool request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("languagetool returned status %d", resp.StatusCode)
	}

	var result CheckResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("unable to decode languagetool response: %w", err)
	}

	return &result, nil
}

// Suggestion is one actionable improvement derived from a match.
type Suggestion struct {
	Message      string   `json:"message"`
	Context      string   `json:"context"`
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Replacements []string `json:"replacements"`
	Rule         string   `json:"rule"`
	Category     string   `json:"category"`
}

// Suggestions returns up to three replacement candidates per detected
// issue.
func (c *Client) Suggestions(ctx context.Context, text string) ([]Suggestion, error) {
	result, err := c.Check(ctx, text)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(result.Matches))
	for _, match := range result.Matches {
		replacements := make([]string, 0, 3)
		for _, r := range match.Replacements {
			if len(replacements) == 3 {
				break
			}
			replacements = append(replacements, r.Value)
		}
		suggestions = append(suggestions, Suggestion{
			Message:      match.Message,
			Context:      match.Context.Text,
			Offset:       match.Offset,
			Length:       match.Length,
			Replacements: replacements,
			Rule:         match.Rule.ID,
			Category:     match.Rule.Category.Name,
		})
	}

	return suggestions, nil
}
