package suggest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jonathan/profile-optimizer/internal/llm"
	"github.com/jonathan/profile-optimizer/internal/prompts"
)

// DefaultTimeout bounds a single remote call.
const DefaultTimeout = 20 * time.Second

// BreakerSettings configures the circuit breaker around the model.
type BreakerSettings struct {
	MaxRequests      uint32        // Probes allowed while half-open
	Interval         time.Duration // Closed-state window for resetting counts
	Timeout          time.Duration // Open-state duration before probing
	MinRequests      uint32
	FailureThreshold float64
}

// DefaultBreakerSettings trips after half of at least 3 requests fail.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.5,
	}
}

// RemoteSuggester asks the model for suggestions, bounded by a per-call
// timeout and guarded by a circuit breaker.
type RemoteSuggester struct {
	client  llm.Client
	tier    llm.ModelTier
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[string]
}

// NewRemoteSuggester creates a suggester over client.
func NewRemoteSuggester(client llm.Client, timeout time.Duration, settings BreakerSettings) *RemoteSuggester {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "suggestions",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= settings.MinRequests && failureRatio >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &RemoteSuggester{
		client:  client,
		tier:    llm.TierLite,
		timeout: timeout,
		cb:      cb,
	}
}

// State reports the breaker state, e.g. "closed" or "open".
func (r *RemoteSuggester) State() string {
	return r.cb.State().String()
}

// Suggest calls the model for one section.
func (r *RemoteSuggester) Suggest(ctx context.Context, req Request) ([]Suggestion, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	raw, err := r.cb.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return r.client.GenerateJSON(callCtx, prompt, r.tier)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("suggestion service unavailable: %w", err)
		}
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	var resp struct {
		Suggestions []struct {
			Factor string `json:"factor"`
			Text   string `json:"text"`
		} `json:"suggestions"`
	}
	if err := llm.DecodeJSON(raw, &resp); err != nil {
		return nil, err
	}

	var out []Suggestion
	for _, s := range resp.Suggestions {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		out = append(out, Suggestion{
			Section: req.Section,
			Factor:  strings.TrimSpace(s.Factor),
			Text:    text,
			Source:  SourceRemote,
		})
		if len(out) >= req.limit() {
			break
		}
	}
	return out, nil
}

func buildPrompt(req Request) (string, error) {
	template, err := prompts.Get(prompts.SuggestionsFile, prompts.KeySectionTips)
	if err != nil {
		return "", err
	}

	var weak []string
	for _, f := range weakFactors(req.Result.Breakdown) {
		weak = append(weak, fmt.Sprintf("%s: %.0f", f.name, f.value))
	}

	return prompts.Format(template, map[string]string{
		"Section":     string(req.Section),
		"TargetRoles": joinOr(req.Context.TargetRoles, "not specified"),
		"Industry":    orDefault(req.Context.Industry, "not specified"),
		"CareerLevel": orDefault(string(req.Context.CareerLevel), "mid"),
		"Keywords":    joinOr(req.Context.Keywords, "none"),
		"Score":       strconv.Itoa(req.Result.Score),
		"WeakFactors": orDefault(strings.Join(weak, "; "), "none"),
		"Issues":      orDefault(strings.Join(req.Result.Issues, "; "), "none"),
		"Content":     SectionContent(req.Section, req.Profile),
		"Limit":       strconv.Itoa(req.limit()),
	}), nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

var _ Suggester = (*RemoteSuggester)(nil)
