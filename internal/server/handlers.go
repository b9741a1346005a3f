package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/gamification"
	"github.com/jonathan/profile-optimizer/internal/schemas"
	"github.com/jonathan/profile-optimizer/internal/server/middleware"
	"github.com/jonathan/profile-optimizer/internal/store"
	"github.com/jonathan/profile-optimizer/internal/suggest"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// dateLayout is the format of the date query and body fields.
const dateLayout = "2006-01-02"

// profileRequest is the body shared by scoring, analyze and suggestion routes.
type profileRequest struct {
	Profile json.RawMessage `json:"profile"`
	Context json.RawMessage `json:"context,omitempty"`
	Section types.Section   `json:"section,omitempty"` // suggestions only
	Limit   int             `json:"limit,omitempty"`   // suggestions only
}

// scoreResponse is returned by POST /score.
type scoreResponse struct {
	Score types.ProfileScore `json:"score"`
	Stats types.Stats        `json:"stats"`
}

// analyzeResponse is returned by POST /me/analyze.
type analyzeResponse struct {
	Score    types.ProfileScore   `json:"score"`
	Outcome  gamification.Outcome `json:"outcome"`
	Progress progressResponse     `json:"progress"`
}

// progressResponse summarizes a user's gamification state.
type progressResponse struct {
	XP                     int                        `json:"xp"`
	Level                  int                        `json:"level"`
	LevelProgress          int                        `json:"level_progress"`
	XPToNextLevel          int                        `json:"xp_to_next_level"`
	OptimizationsCompleted int                        `json:"optimizations_completed"`
	SuggestionsAccepted    int                        `json:"suggestions_accepted"`
	TotalScoreImprovement  int                        `json:"total_score_improvement"`
	Achievements           []gamification.Achievement `json:"achievements"`
}

// challengeCheckRequest is the body of POST /challenges/check.
type challengeCheckRequest struct {
	ChallengeID string      `json:"challenge_id,omitempty"`
	Date        string      `json:"date,omitempty"`
	Before      types.Stats `json:"before"`
	After       types.Stats `json:"after"`
}

// challengeCheckResponse reports whether a challenge was completed.
type challengeCheckResponse struct {
	Challenge gamification.Challenge `json:"challenge"`
	Completed bool                   `json:"completed"`
}

// suggestionsResponse is returned by POST /me/suggestions.
type suggestionsResponse struct {
	Overall     int                                   `json:"overall"`
	Suggestions map[types.Section][]suggest.Suggestion `json:"suggestions"`
}

func newProgress(state types.GamificationState) progressResponse {
	unlocked := make([]gamification.Achievement, 0, len(state.UnlockedAchievements))
	for _, id := range state.UnlockedAchievements {
		if a, ok := gamification.AchievementByID(id); ok {
			unlocked = append(unlocked, a)
		}
	}
	return progressResponse{
		XP:                     state.XP,
		Level:                  gamification.Level(state.XP),
		LevelProgress:          gamification.LevelProgress(state.XP),
		XPToNextLevel:          gamification.XPToNextLevel(state.XP),
		OptimizationsCompleted: state.OptimizationsCompleted,
		SuggestionsAccepted:    state.SuggestionsAccepted,
		TotalScoreImprovement:  state.TotalScoreImprovement,
		Achievements:           unlocked,
	}
}

// readBody reads a size-capped request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return body, nil
}

// decodeJSON unmarshals body into v, reporting malformed input as a validation error.
func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// decodeProfileRequest validates the profile and context against their schemas
// and fills AsOfYear from the server clock when absent.
func (s *Server) decodeProfileRequest(w http.ResponseWriter, r *http.Request) (*profileRequest, *types.Profile, types.JobContext, error) {
	var jobCtx types.JobContext

	body, err := readBody(w, r)
	if err != nil {
		return nil, nil, jobCtx, err
	}
	var req profileRequest
	if err := decodeJSON(body, &req); err != nil {
		return nil, nil, jobCtx, err
	}
	if len(req.Profile) == 0 || string(req.Profile) == "null" {
		return nil, nil, jobCtx, &ErrValidation{Field: "profile", Message: "is required"}
	}

	if err := schemas.Validate(schemas.KindProfile, req.Profile); err != nil {
		return nil, nil, jobCtx, err
	}
	var profile types.Profile
	if err := decodeJSON(req.Profile, &profile); err != nil {
		return nil, nil, jobCtx, err
	}

	if len(req.Context) > 0 && string(req.Context) != "null" {
		if err := schemas.Validate(schemas.KindJobContext, req.Context); err != nil {
			return nil, nil, jobCtx, err
		}
		if err := decodeJSON(req.Context, &jobCtx); err != nil {
			return nil, nil, jobCtx, err
		}
		if err := jobCtx.Validate(); err != nil {
			return nil, nil, jobCtx, &ErrValidation{Field: "context", Message: err.Error()}
		}
	}
	if jobCtx.AsOfYear == 0 {
		jobCtx.AsOfYear = s.clock.Now().Year()
	}

	return &req, &profile, jobCtx, nil
}

// handleScore scores every section of a profile.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	_, profile, jobCtx, err := s.decodeProfileRequest(w, r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}

	score := s.scorer.ScoreAll(profile, jobCtx)
	s.metrics.overallScores.Observe(float64(score.Overall))
	s.jsonResponse(w, http.StatusOK, scoreResponse{
		Score: score,
		Stats: s.scorer.BuildStats(profile, jobCtx, score),
	})
}

// handleScoreSection scores a single named section.
func (s *Server) handleScoreSection(w http.ResponseWriter, r *http.Request) {
	section := types.Section(r.PathValue("section"))

	_, profile, jobCtx, err := s.decodeProfileRequest(w, r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}

	result, err := s.scorer.ScoreSection(section, profile, jobCtx)
	if err != nil {
		s.failResponse(w, r, fmt.Errorf("section %q: %w", section, err))
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// parseDate parses an optional YYYY-MM-DD value, defaulting to the clock's today.
func (s *Server) parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return s.clock.Now(), nil
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &ErrValidation{Field: field, Message: "must be YYYY-MM-DD"}
	}
	return date, nil
}

// handleDailyChallenge returns the challenge for ?date= or today.
func (s *Server) handleDailyChallenge(w http.ResponseWriter, r *http.Request) {
	date, err := s.parseDate("date", r.URL.Query().Get("date"))
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, gamification.DailyChallenge(date))
}

// handleCheckChallenge compares two stats snapshots against a challenge.
// Without a challenge_id the daily challenge for date (or today) is used.
func (s *Server) handleCheckChallenge(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	var req challengeCheckRequest
	if err := decodeJSON(body, &req); err != nil {
		s.failResponse(w, r, err)
		return
	}

	var challenge gamification.Challenge
	if req.ChallengeID != "" {
		var ok bool
		challenge, ok = gamification.ChallengeByID(req.ChallengeID)
		if !ok {
			s.failResponse(w, r, &ErrNotFound{Kind: "challenge", Name: req.ChallengeID})
			return
		}
	} else {
		date, err := s.parseDate("date", req.Date)
		if err != nil {
			s.failResponse(w, r, err)
			return
		}
		challenge = gamification.DailyChallenge(date)
	}

	s.jsonResponse(w, http.StatusOK, challengeCheckResponse{
		Challenge: challenge,
		Completed: gamification.CheckChallengeComplete(challenge, req.Before, req.After),
	})
}

// handleGetProgress returns the caller's progression.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	state, err := store.LoadOrNew(r.Context(), s.gateway, userID)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newProgress(state))
}

// handleApplyEvent applies a caller-supplied scoring event to the caller's state.
func (s *Server) handleApplyEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	var event types.ScoringEvent
	if err := decodeJSON(body, &event); err != nil {
		s.failResponse(w, r, err)
		return
	}
	if err := schemas.Validate(schemas.KindScoringEvent, body); err != nil {
		s.failResponse(w, r, err)
		return
	}

	outcome, err := s.applyEvent(r, userID, func(types.GamificationState) (types.ScoringEvent, error) {
		return event, nil
	}, nil)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, outcome)
}

// handleAnalyze scores a profile and feeds the result through the caller's progression.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	_, profile, jobCtx, err := s.decodeProfileRequest(w, r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}

	score := s.scorer.ScoreAll(profile, jobCtx)
	s.metrics.overallScores.Observe(float64(score.Overall))
	stats := s.scorer.BuildStats(profile, jobCtx, score)

	outcome, err := s.applyEvent(r, userID, func(state types.GamificationState) (types.ScoringEvent, error) {
		event := types.ScoringEvent{
			OverallScore:    score.Overall,
			IsFirstAnalysis: state.OptimizationsCompleted == 0,
			Stats:           stats,
		}
		records, err := s.history.ListScoreHistory(r.Context(), userID, 1)
		if err != nil {
			return event, fmt.Errorf("failed to load score history: %w", err)
		}
		if len(records) > 0 {
			previous := records[0].Overall
			event.PreviousOverall = &previous
		}
		return event, nil
	}, func(outcome gamification.Outcome) {
		if _, err := s.history.RecordScore(r.Context(), userID, score, outcome.XPAwarded); err != nil {
			log.Printf("[analyze] failed to record score history for %s: %v", userID, err)
		}
	})
	if err != nil {
		s.failResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, analyzeResponse{
		Score:    score,
		Outcome:  outcome,
		Progress: newProgress(outcome.State),
	})
}

// applyEvent runs load-evaluate-save for userID while holding the user's lock.
// buildEvent sees the loaded state so it can derive first-analysis and counters.
// afterSave, if set, runs after a successful save and before the lock is released.
func (s *Server) applyEvent(
	r *http.Request,
	userID uuid.UUID,
	buildEvent func(types.GamificationState) (types.ScoringEvent, error),
	afterSave func(gamification.Outcome),
) (gamification.Outcome, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	ctx := r.Context()
	state, err := store.LoadOrNew(ctx, s.gateway, userID)
	if err != nil {
		return gamification.Outcome{}, err
	}

	event, err := buildEvent(state)
	if err != nil {
		return gamification.Outcome{}, err
	}

	outcome := gamification.Evaluate(state, event)
	if err := s.gateway.Save(ctx, userID, outcome.State); err != nil {
		s.metrics.stateSaveFailure.Inc()
		return gamification.Outcome{}, fmt.Errorf("failed to save gamification state: %w", err)
	}
	if afterSave != nil {
		afterSave(outcome)
	}

	s.metrics.xpAwarded.Add(float64(outcome.XPAwarded))
	for _, a := range outcome.NewlyUnlocked {
		s.metrics.achievements.WithLabelValues(string(a.ID)).Inc()
	}
	if outcome.LeveledUp {
		log.Printf("[progress] user %s reached level %d", userID, gamification.Level(outcome.State.XP))
	}
	return outcome, nil
}

// handleSuggestions returns improvement suggestions for one section or every section.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetUserID(r); err != nil {
		s.errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	req, profile, jobCtx, err := s.decodeProfileRequest(w, r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}

	score := s.scorer.ScoreAll(profile, jobCtx)

	var suggestions map[types.Section][]suggest.Suggestion
	if req.Section != "" {
		result, err := s.scorer.ScoreSection(req.Section, profile, jobCtx)
		if err != nil {
			s.failResponse(w, r, fmt.Errorf("section %q: %w", req.Section, err))
			return
		}
		items, err := s.suggester.Suggest(r.Context(), suggest.Request{
			Section: req.Section,
			Profile: profile,
			Context: jobCtx,
			Result:  result,
			Limit:   req.Limit,
		})
		if err != nil {
			s.failResponse(w, r, err)
			return
		}
		suggestions = map[types.Section][]suggest.Suggestion{}
		if len(items) > 0 {
			suggestions[req.Section] = items
		}
	} else {
		suggestions, err = suggest.SuggestAll(r.Context(), s.suggester, profile, jobCtx, score)
		if err != nil {
			s.failResponse(w, r, err)
			return
		}
	}

	for _, items := range suggestions {
		for _, item := range items {
			s.metrics.suggestions.WithLabelValues(item.Source).Inc()
		}
	}
	s.jsonResponse(w, http.StatusOK, suggestionsResponse{Overall: score.Overall, Suggestions: suggestions})
}

// handleHistory lists the caller's analyzed scores, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	limit := store.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.failResponse(w, r, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := s.history.ListScoreHistory(r.Context(), userID, limit)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	if records == nil {
		records = []types.ScoreRecord{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"history": records})
}
