package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"globetrotter/internal/app"
	"globetrotter/internal/auth"
	"globetrotter/internal/domain"
	"globetrotter/internal/infra/memory"
)

type testAPI struct {
	handler      http.Handler
	services     Services
	destinations []domain.Destination
}

func newTestAPI(t *testing.T, production bool) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	seed := memory.SeedDestinations()

	users := memory.NewUserStore()
	challenges := memory.NewChallengeStore()
	board := app.NewLeaderboardService(users, 10, logger)

	svc := Services{
		Users:       app.NewUserService(users, challenges, auth.NewIssuer("test-secret", time.Hour), memory.NewTokenDenylist()),
		Questions:   app.NewQuestionService(memory.NewDestinationStore(seed), users, board, app.QuestionConfig{}),
		Leaderboard: board,
		Challenges:  app.NewChallengeService(challenges, users, 0, "https://play.example"),
	}
	return &testAPI{
		handler:      NewRouter(Options{Logger: logger, Production: production}, svc),
		services:     svc,
		destinations: seed,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) signup(t *testing.T, username string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/signup", "", CredentialsRequest{Username: username, Password: "secret123"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rec.Code, rec.Body.String())
	}
	var session app.Session
	decode(t, rec, &session)
	if session.Token == "" {
		t.Fatalf("signup returned no token")
	}
	return session.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t, false)
	token := api.signup(t, "alice")

	rec := api.do(t, http.MethodPost, "/api/auth/signup", "", CredentialsRequest{Username: "Alice", Password: "secret123"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", CredentialsRequest{Username: "alice", Password: "wrong-pass"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", CredentialsRequest{Username: "alice", Password: "secret123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodGet, "/api/user", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d", rec.Code)
	}
	var u domain.User
	decode(t, rec, &u)
	if u.Username != "alice" {
		t.Fatalf("profile username = %q", u.Username)
	}
	if strings.Contains(rec.Body.String(), "secret123") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("profile leaks password material: %s", rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec = api.do(t, http.MethodGet, "/api/user", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t, false)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/user"},
		{http.MethodGet, "/api/user/stats"},
		{http.MethodGet, "/api/game/questions"},
		{http.MethodPost, "/api/game/check-answers"},
		{http.MethodPost, "/api/challenges"},
		{http.MethodGet, "/api/challenges/user/active"},
		{http.MethodPost, "/api/auth/logout"},
	}
	for _, rt := range routes {
		rec := api.do(t, rt.method, rt.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want %d", rt.method, rt.path, rec.Code, http.StatusUnauthorized)
		}
	}
	rec := api.do(t, http.MethodGet, "/api/user", "garbage", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d", rec.Code)
	}
}

func TestQuestions(t *testing.T) {
	api := newTestAPI(t, false)
	token := api.signup(t, "alice")

	rec := api.do(t, http.MethodGet, "/api/game/questions", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("questions status = %d, body %s", rec.Code, rec.Body.String())
	}
	var qs []domain.Question
	decode(t, rec, &qs)
	if len(qs) != app.DefaultQuestionCount {
		t.Fatalf("got %d questions, want %d", len(qs), app.DefaultQuestionCount)
	}
	for _, q := range qs {
		if len(q.Options) != app.DefaultOptionsPerQuestion || len(q.Clues) == 0 {
			t.Fatalf("malformed question %+v", q)
		}
	}

	cases := map[string]int{
		"/api/game/questions?count=3":   http.StatusOK,
		"/api/game/questions?count=abc": http.StatusBadRequest,
		"/api/game/questions?count=-1":  http.StatusBadRequest,
		"/api/game/questions?count=51":  http.StatusBadRequest,
		"/api/game/questions?count=40":  http.StatusUnprocessableEntity,
	}
	for path, want := range cases {
		if rec := api.do(t, http.MethodGet, path, token, nil); rec.Code != want {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, want)
		}
	}
}

func TestCheckAnswerUpdatesStats(t *testing.T) {
	api := newTestAPI(t, false)
	token := api.signup(t, "alice")
	dest := api.destinations[0]

	rec := api.do(t, http.MethodPost, "/api/game/check-answers", token, CheckAnswerRequest{ID: dest.ID, Answer: dest.City})
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result domain.AnswerResult
	decode(t, rec, &result)
	if !result.Correct || result.Fact == "" {
		t.Fatalf("unexpected result %+v", result)
	}

	rec = api.do(t, http.MethodPost, "/api/game/check-answers", token, CheckAnswerRequest{ID: dest.ID, Answer: "Atlantis"})
	decode(t, rec, &result)
	if result.Correct {
		t.Fatalf("expected wrong answer to be rejected")
	}

	rec = api.do(t, http.MethodPost, "/api/game/check-answers", token, CheckAnswerRequest{ID: "nope", Answer: "x"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown question status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	rec = api.do(t, http.MethodPost, "/api/game/check-answers", token, CheckAnswerRequest{Answer: "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing id status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = api.do(t, http.MethodGet, "/api/user/stats", token, nil)
	var stats domain.UserStats
	decode(t, rec, &stats)
	if stats.QuestionsAttempted != 2 || stats.CorrectAnswers != 1 || stats.WrongAnswers != 1 || stats.AverageScore != 50 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Points != dest.Difficulty.Points() {
		t.Fatalf("points = %d, want %d", stats.Points, dest.Difficulty.Points())
	}
}

func TestLeaderboard(t *testing.T) {
	api := newTestAPI(t, false)
	alice := api.signup(t, "alice")
	api.signup(t, "bob")
	dest := api.destinations[0]
	api.do(t, http.MethodPost, "/api/game/check-answers", alice, CheckAnswerRequest{ID: dest.ID, Answer: dest.City})

	rec := api.do(t, http.MethodGet, "/api/leaderboard/top-scores", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d", rec.Code)
	}
	var entries []domain.LeaderboardEntry
	decode(t, rec, &entries)
	if len(entries) != 2 || entries[0].Username != "alice" || entries[1].Username != "bob" {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}

	rec = api.do(t, http.MethodGet, "/api/leaderboard/fastest", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown sort status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestChallengeLifecycle(t *testing.T) {
	api := newTestAPI(t, false)
	token := api.signup(t, "alice")
	dest := api.destinations[0]
	api.do(t, http.MethodPost, "/api/game/check-answers", token, CheckAnswerRequest{ID: dest.ID, Answer: dest.City})

	rec := api.do(t, http.MethodPost, "/api/challenges", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created ChallengeCreatedResponse
	decode(t, rec, &created)
	if !created.Success || created.Challenge.ID == "" {
		t.Fatalf("unexpected create response %+v", created)
	}
	if got := created.Challenge.ExpiresAt.Sub(created.Challenge.CreatedAt); got != app.DefaultChallengeTTL {
		t.Fatalf("challenge ttl = %v, want %v", got, app.DefaultChallengeTTL)
	}
	id := created.Challenge.ID

	for want := 1; want <= 2; want++ {
		rec = api.do(t, http.MethodGet, "/api/challenges/"+id, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("get status = %d", rec.Code)
		}
		var resp ChallengeResponse
		decode(t, rec, &resp)
		if resp.Challenge.TimesPlayed != want {
			t.Fatalf("times_played = %d, want %d", resp.Challenge.TimesPlayed, want)
		}
		if resp.Challenge.Challenger.Username != "alice" || resp.Challenge.Challenger.CorrectAnswers != 1 {
			t.Fatalf("unexpected challenger %+v", resp.Challenge.Challenger)
		}
	}

	rec = api.do(t, http.MethodGet, "/api/challenges/"+id+"/qr", "", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("qr status = %d, content-type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("qr body is not a png")
	}

	rec = api.do(t, http.MethodGet, "/api/challenges/user/active", token, nil)
	var active ActiveChallengesResponse
	decode(t, rec, &active)
	if active.Count != 1 || active.Challenges[0].ID != id || active.Challenges[0].TimesPlayed != 2 {
		t.Fatalf("unexpected active list %+v", active)
	}

	rec = api.do(t, http.MethodGet, "/api/challenges/does-not-exist", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown challenge status = %d", rec.Code)
	}
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	if errResp.Message != "challenge not found or has expired" {
		t.Fatalf("unexpected message %q", errResp.Message)
	}
}

func TestErrorDetailsHiddenInProduction(t *testing.T) {
	rep := errorReporter{logger: slog.New(slog.NewTextHandler(io.Discard, nil)), production: true}
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	rec := httptest.NewRecorder()
	rep.fail(rec, req, domain.Upstream("mongo get user", errors.New("connection refused")))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("production body leaks cause: %s", rec.Body.String())
	}

	rep.production = false
	rec = httptest.NewRecorder()
	rep.fail(rec, req, errors.New("boom"))
	var body ErrorResponse
	decode(t, rec, &body)
	if rec.Code != http.StatusInternalServerError || body.Error != "boom" {
		t.Fatalf("status = %d, body %+v", rec.Code, body)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(Options{AllowedOrigin: "https://play.example"}, newTestAPI(t, false).services)

	req := httptest.NewRequest(http.MethodOptions, "/api/game/questions", nil)
	req.Header.Set("Origin", "https://play.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "https://play.example" {
		t.Fatalf("preflight status = %d, allow-origin %q", rec.Code, rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials for the configured origin")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow-origin for foreign origin")
	}
}

func TestCORSWildcard(t *testing.T) {
	services := newTestAPI(t, false).services
	for _, origin := range []string{"", "*"} {
		h := NewRouter(Options{AllowedOrigin: origin}, services)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("allowed origin %q: allow-origin = %q, want *", origin, got)
		}
		if rec.Header().Get("Access-Control-Allow-Credentials") != "" {
			t.Fatalf("allowed origin %q: credentials must not be allowed", origin)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	checks := map[string]HealthCheck{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	}
	h := handleHealth(slog.New(slog.NewTextHandler(io.Discard, nil)), checks)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var body HealthResponse
	decode(t, rec, &body)
	if body["mongo"].Status != "ok" || body["redis"].Status != "error" {
		t.Fatalf("unexpected health body %+v", body)
	}
}
