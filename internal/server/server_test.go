package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/gamification"
	"github.com/jonathan/profile-optimizer/internal/server/ratelimit"
	"github.com/jonathan/profile-optimizer/internal/store"
	"github.com/jonathan/profile-optimizer/internal/types"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type testServer struct {
	*Server
	gateway *store.MemoryGateway
	history *store.MemoryHistory
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1, Issuer: config.DefaultJWTIssuer}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gateway := store.NewMemoryGateway()
	history := store.NewMemoryHistory()

	s, err := New(Config{
		Gateway:   gateway,
		History:   history,
		Clock:     gamification.FixedClock{Time: testNow},
		JWT:       testJWTConfig(),
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return &testServer{Server: s, gateway: gateway, history: history}
}

func (ts *testServer) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := ts.JWT().GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func sampleProfile() map[string]any {
	return map[string]any{
		"headline": "Senior Product Manager | B2B SaaS | Grew ARR 40%",
		"about":    "I turn data into product decisions. Increased retention 25% at Acme. Let's connect.",
		"experiences": []map[string]any{
			{
				"title":    "Senior Product Manager",
				"company":  "Acme",
				"duration": "2021 - Present",
				"bullets":  []string{"Led a team of 6 to launch analytics used by 10,000 customers", "Increased revenue 30%"},
			},
		},
		"skills": []string{"Product Management", "SQL", "Roadmap"},
	}
}

func sampleRequest() map[string]any {
	return map[string]any{
		"profile": sampleProfile(),
		"context": map[string]any{
			"keywords":     []string{"Product Management", "SaaS", "SQL"},
			"target_roles": []string{"Product Manager"},
			"career_level": "senior",
		},
	}
}

func TestNew_RequiresGateway(t *testing.T) {
	_, err := New(Config{RateLimit: &ratelimit.Config{Enabled: false}})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodOptions, "/score", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestScore(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/score", sampleRequest(), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[scoreResponse](t, w)
	assert.GreaterOrEqual(t, resp.Score.Overall, 0)
	assert.LessOrEqual(t, resp.Score.Overall, 100)
	assert.Len(t, resp.Score.Sections, len(types.AllSections))
	assert.Equal(t, resp.Score.Overall, resp.Stats.OverallScore)
	assert.Equal(t, 3, resp.Stats.SkillsCount)
}

func TestScore_IsDeterministic(t *testing.T) {
	ts := newTestServer(t)
	first := ts.do(t, http.MethodPost, "/score", sampleRequest(), "")
	second := ts.do(t, http.MethodPost, "/score", sampleRequest(), "")

	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestScore_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "malformed JSON", body: `{"profile": `},
		{name: "missing profile", body: map[string]any{}},
		{name: "null profile", body: `{"profile": null}`},
		{name: "unknown profile field", body: map[string]any{"profile": map[string]any{"nickname": "pm"}}},
		{name: "experience without title", body: map[string]any{"profile": map[string]any{"experiences": []map[string]any{{"company": "Acme"}}}}},
		{name: "invalid career level", body: map[string]any{"profile": sampleProfile(), "context": map[string]any{"career_level": "intern"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/score", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestScore_SchemaErrorsIncludeDetails(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/score", map[string]any{"profile": map[string]any{"nickname": "pm"}}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[map[string]any](t, w)
	details, ok := resp["details"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, details)
}

func TestScoreSection(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/score/headline", sampleRequest(), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeBody[types.ScoreResult](t, w)
	assert.NotEmpty(t, result.Breakdown)

	all := decodeBody[scoreResponse](t, ts.do(t, http.MethodPost, "/score", sampleRequest(), ""))
	assert.Equal(t, all.Score.Sections[types.SectionHeadline].Score, result.Score)
}

func TestScoreSection_Unknown(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/score/hobbies", sampleRequest(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown section")
}

func TestDailyChallenge(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/challenges/daily?date=2024-01-01", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[gamification.Challenge](t, w)
	assert.Equal(t, gamification.DailyChallenge(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).ID, got.ID)

	w = ts.do(t, http.MethodGet, "/challenges/daily", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeBody[gamification.Challenge](t, w)
	assert.Equal(t, gamification.DailyChallenge(testNow).ID, got.ID)

	w = ts.do(t, http.MethodGet, "/challenges/daily?date=01/02/2024", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckChallenge(t *testing.T) {
	ts := newTestServer(t)

	before := types.Stats{SectionScores: map[types.Section]int{types.SectionHeadline: 50}}
	after := types.Stats{SectionScores: map[types.Section]int{types.SectionHeadline: 65}}

	w := ts.do(t, http.MethodPost, "/challenges/check", map[string]any{
		"challenge_id": "headline_boost",
		"before":       before,
		"after":        after,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[challengeCheckResponse](t, w)
	assert.Equal(t, "headline_boost", resp.Challenge.ID)
	assert.True(t, resp.Completed)

	w = ts.do(t, http.MethodPost, "/challenges/check", map[string]any{
		"challenge_id": "headline_boost",
		"before":       after,
		"after":        before,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeBody[challengeCheckResponse](t, w).Completed)
}

func TestCheckChallenge_DefaultsToDaily(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/challenges/check", map[string]any{"date": "2024-02-10"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody[challengeCheckResponse](t, w)
	assert.Equal(t, gamification.DailyChallenge(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)).ID, resp.Challenge.ID)
	assert.False(t, resp.Completed)
}

func TestCheckChallenge_UnknownID(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/challenges/check", map[string]any{"challenge_id": "marathon"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeRoutes_RequireToken(t *testing.T) {
	ts := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/me/progress"},
		{http.MethodPost, "/me/events"},
		{http.MethodPost, "/me/analyze"},
		{http.MethodPost, "/me/suggestions"},
		{http.MethodGet, "/me/history"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := ts.do(t, route.method, route.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = ts.do(t, route.method, route.path, nil, "not-a-jwt")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMeRoutes_DisabledWithoutJWT(t *testing.T) {
	s, err := New(Config{Gateway: store.NewMemoryGateway(), RateLimit: &ratelimit.Config{Enabled: false}})
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.JWT())
	req := httptest.NewRequest(http.MethodGet, "/me/progress", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProgress_NewUser(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/me/progress", nil, ts.token(t, uuid.New()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	progress := decodeBody[progressResponse](t, w)
	assert.Equal(t, 0, progress.XP)
	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, 100, progress.XPToNextLevel)
	assert.Empty(t, progress.Achievements)
}

func TestApplyEvent(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	token := ts.token(t, userID)

	w := ts.do(t, http.MethodPost, "/me/events", map[string]any{
		"overall_score":     85,
		"is_first_analysis": true,
		"stats":             map[string]any{"overall_score": 85},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	outcome := decodeBody[gamification.Outcome](t, w)
	assert.Equal(t, 80, outcome.XPAwarded) // 30 for 80-89 plus the first-analysis bonus
	assert.Equal(t, 80, outcome.State.XP)
	assert.Equal(t, 1, outcome.State.OptimizationsCompleted)
	assert.Contains(t, outcome.State.UnlockedAchievements, gamification.AchievementFirstOptimization)

	saved, err := ts.gateway.Load(t.Context(), userID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, outcome.State, *saved)

	progress := decodeBody[progressResponse](t, ts.do(t, http.MethodGet, "/me/progress", nil, token))
	assert.Equal(t, 80, progress.XP)
	require.NotEmpty(t, progress.Achievements)
	assert.Equal(t, "First Steps", progress.Achievements[0].Name)
}

func TestApplyEvent_Invalid(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, uuid.New())

	w := ts.do(t, http.MethodPost, "/me/events", map[string]any{"overall_score": 140}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/me/events", map[string]any{"is_first_analysis": true}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/me/events", "not json", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyEvent_NewerStateVersionConflicts(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()

	future := types.NewGamificationState()
	future.SchemaVersion = types.CurrentStateSchemaVersion + 1
	ts.Server.gateway = &versionedGateway{Gateway: ts.gateway, state: future}

	w := ts.do(t, http.MethodPost, "/me/events", map[string]any{"overall_score": 50}, ts.token(t, userID))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApplyEvent_ConcurrentWritesAreSerialized(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	token := ts.token(t, userID)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := ts.do(t, http.MethodPost, "/me/events", map[string]any{"overall_score": 70}, token)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	state, err := ts.gateway.Load(t.Context(), userID)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, n, state.OptimizationsCompleted)
	assert.Equal(t, n*gamification.XPRewardForScore(70), state.XP)
	assert.Zero(t, ts.locks.size())
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	token := ts.token(t, userID)

	w := ts.do(t, http.MethodPost, "/me/analyze", sampleRequest(), token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decodeBody[analyzeResponse](t, w)

	expectedXP := gamification.XPRewardForScore(first.Score.Overall) + gamification.FirstAnalysisBonus
	assert.Equal(t, expectedXP, first.Outcome.XPAwarded)
	assert.Equal(t, 1, first.Outcome.State.OptimizationsCompleted)
	assert.Equal(t, gamification.Level(expectedXP), first.Progress.Level)

	w = ts.do(t, http.MethodPost, "/me/analyze", sampleRequest(), token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := decodeBody[analyzeResponse](t, w)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, gamification.XPRewardForScore(second.Score.Overall), second.Outcome.XPAwarded)
	assert.Equal(t, 2, second.Outcome.State.OptimizationsCompleted)
	assert.Equal(t, 0, second.Outcome.State.TotalScoreImprovement)
	assert.GreaterOrEqual(t, second.Outcome.State.XP, first.Outcome.State.XP)

	records, err := ts.history.ListScoreHistory(t.Context(), userID, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.Outcome.XPAwarded, records[0].XPAwarded)
	assert.Equal(t, first.Outcome.XPAwarded, records[1].XPAwarded)
}

func TestAnalyze_TracksImprovement(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	token := ts.token(t, userID)

	weak := map[string]any{"profile": map[string]any{"headline": "Manager"}}
	w := ts.do(t, http.MethodPost, "/me/analyze", weak, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	before := decodeBody[analyzeResponse](t, w)

	w = ts.do(t, http.MethodPost, "/me/analyze", sampleRequest(), token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	after := decodeBody[analyzeResponse](t, w)

	gain := after.Score.Overall - before.Score.Overall
	if gain < 0 {
		gain = 0
	}
	assert.Equal(t, gain, after.Outcome.State.TotalScoreImprovement)
}

// slowHistory delays writes so an unlocked write would interleave with the next read.
type slowHistory struct {
	store.History
	delay time.Duration
}

func (h slowHistory) RecordScore(ctx context.Context, userID uuid.UUID, score types.ProfileScore, xpAwarded int) (uuid.UUID, error) {
	time.Sleep(h.delay)
	return h.History.RecordScore(ctx, userID, score, xpAwarded)
}

func TestAnalyze_ConcurrentImprovementCountedOnce(t *testing.T) {
	ts := newTestServer(t)
	ts.Server.history = slowHistory{History: store.NewMemoryHistory(), delay: 50 * time.Millisecond}
	userID := uuid.New()
	token := ts.token(t, userID)

	weak := map[string]any{"profile": map[string]any{"skills": []string{"Typing"}}}
	w := ts.do(t, http.MethodPost, "/me/analyze", weak, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	before := decodeBody[analyzeResponse](t, w)

	const n = 3
	overall := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := ts.do(t, http.MethodPost, "/me/analyze", sampleRequest(), token)
			var resp analyzeResponse
			if assert.Equal(t, http.StatusOK, w.Code) && assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)) {
				overall[i] = resp.Score.Overall
			}
		}()
	}
	wg.Wait()

	require.Greater(t, overall[0], before.Score.Overall)
	state, err := ts.gateway.Load(t.Context(), userID)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, overall[0]-before.Score.Overall, state.TotalScoreImprovement)
	assert.Equal(t, n+1, state.OptimizationsCompleted)

	records, err := ts.Server.history.ListScoreHistory(t.Context(), userID, 10)
	require.NoError(t, err)
	assert.Len(t, records, n+1)
}

func TestHistory(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	token := ts.token(t, userID)

	w := ts.do(t, http.MethodGet, "/me/history", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"history":[]}`, w.Body.String())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/me/analyze", sampleRequest(), token).Code)
	}

	w = ts.do(t, http.MethodGet, "/me/history?limit=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string][]types.ScoreRecord](t, w)
	assert.Len(t, resp["history"], 2)
	for _, record := range resp["history"] {
		assert.Equal(t, userID, record.UserID)
	}

	w = ts.do(t, http.MethodGet, "/me/history?limit=zero", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestions_FallbackWithoutRemote(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, uuid.New())

	body := map[string]any{"profile": map[string]any{"headline": "Manager"}}
	w := ts.do(t, http.MethodPost, "/me/suggestions", body, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[suggestionsResponse](t, w)
	require.NotEmpty(t, resp.Suggestions)
	for section, items := range resp.Suggestions {
		for _, item := range items {
			assert.Equal(t, section, item.Section)
			assert.Equal(t, "fallback", item.Source)
			assert.NotEmpty(t, item.Text)
		}
	}

	metrics := ts.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Contains(t, metrics.Body.String(), `profile_agent_suggestions_total{source="fallback"}`)
}

func TestSuggestions_SingleSection(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, uuid.New())

	body := map[string]any{"profile": map[string]any{"headline": "Manager"}, "section": "about", "limit": 1}
	w := ts.do(t, http.MethodPost, "/me/suggestions", body, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[suggestionsResponse](t, w)
	require.Len(t, resp.Suggestions, 1)
	assert.Len(t, resp.Suggestions[types.SectionAbout], 1)

	body["section"] = "hobbies"
	w = ts.do(t, http.MethodPost, "/me/suggestions", body, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, uuid.New())
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/me/analyze", sampleRequest(), token).Code)

	w := ts.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `profile_agent_http_requests_total{method="POST",route="POST /me/analyze",status="200"} 1`)
	assert.Contains(t, body, "profile_agent_overall_score_count 1")
	assert.Contains(t, body, `profile_agent_achievements_unlocked_total{achievement="first_optimization"} 1`)
	assert.Contains(t, body, "profile_agent_xp_awarded_total")
}

func TestRateLimit(t *testing.T) {
	s, err := New(Config{
		Gateway: store.NewMemoryGateway(),
		RateLimit: &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  100,
			DefaultWindow: time.Minute,
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/score", Method: http.MethodPost, Limit: 1, Window: time.Minute, Burst: 1},
			},
		},
	})
	require.NoError(t, err)
	defer s.Close()

	send := func() *httptest.ResponseRecorder {
		data, err := json.Marshal(sampleRequest())
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/score", bytes.NewReader(data))
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := send()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "rate_limit_exceeded")
}

func TestUserLocks_ReleaseEntries(t *testing.T) {
	locks := newUserLocks()
	a, b := uuid.New(), uuid.New()

	unlockA := locks.Lock(a)
	unlockB := locks.Lock(b)
	assert.Equal(t, 2, locks.size())

	acquired := make(chan struct{})
	go func() {
		unlock := locks.Lock(a)
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	<-acquired
	unlockB()
	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, time.Millisecond)
}

// versionedGateway returns a fixed state regardless of user.
type versionedGateway struct {
	store.Gateway
	state types.GamificationState
}

func (g *versionedGateway) Load(_ context.Context, _ uuid.UUID) (*types.GamificationState, error) {
	data, err := json.Marshal(g.state)
	if err != nil {
		return nil, err
	}
	return store.Decode(data)
}
