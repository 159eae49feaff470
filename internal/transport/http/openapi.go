package http

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"globetrotter/internal/app"
	"globetrotter/internal/domain"
)

type sortTypePath struct {
	SortType string `path:"sortType" enum:"top-scores,most-correct,most-wrong"`
}

type challengePath struct {
	ChallengeID string `path:"challengeID"`
}

type questionsQuery struct {
	Count int `query:"count" minimum:"1" maximum:"50" description:"Number of questions, default 10."`
}

type qrQuery struct {
	ChallengeID string `path:"challengeID"`
	Size        int    `query:"size" minimum:"64" maximum:"1024"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Globetrotter API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Backend API for the Globetrotter destination guessing game.")

	type op struct {
		method, path, summary, description string
		req                                any
		resp                               any
		status                             int
		errors                             []int
	}
	ops := []op{
		{http.MethodGet, "/healthz", "Health check", "Returns the health status of backend dependencies.",
			nil, HealthResponse{}, http.StatusOK, []int{http.StatusServiceUnavailable}},
		{http.MethodPost, "/api/auth/signup", "Sign up", "Creates an account and returns a bearer token.",
			CredentialsRequest{}, app.Session{}, http.StatusCreated, []int{http.StatusBadRequest, http.StatusConflict}},
		{http.MethodPost, "/api/auth/login", "Log in", "Returns a bearer token for valid credentials.",
			CredentialsRequest{}, app.Session{}, http.StatusOK, []int{http.StatusUnauthorized}},
		{http.MethodPost, "/api/auth/logout", "Log out", "Revokes the bearer token. Requires Bearer token.",
			nil, SuccessResponse{}, http.StatusOK, []int{http.StatusUnauthorized}},
		{http.MethodGet, "/api/user", "Current user", "Returns the caller's profile. Requires Bearer token.",
			nil, domain.User{}, http.StatusOK, []int{http.StatusUnauthorized}},
		{http.MethodGet, "/api/user/stats", "User stats", "Returns the caller's play statistics. Requires Bearer token.",
			nil, domain.UserStats{}, http.StatusOK, []int{http.StatusUnauthorized}},
		{http.MethodGet, "/api/game/questions", "Get questions", "Samples random destinations as multiple-choice questions. Requires Bearer token.",
			questionsQuery{}, []domain.Question{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity}},
		{http.MethodPost, "/api/game/check-answers", "Check answer", "Checks a guess, updates the score and returns a fun fact. Requires Bearer token.",
			CheckAnswerRequest{}, domain.AnswerResult{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound}},
		{http.MethodGet, "/api/leaderboard/{sortType}", "Leaderboard", "Users ranked by points, correct or wrong answers.",
			sortTypePath{}, []domain.LeaderboardEntry{}, http.StatusOK, []int{http.StatusBadRequest}},
		{http.MethodPost, "/api/challenges", "Create challenge", "Creates a shareable challenge valid for seven days. Requires Bearer token.",
			nil, ChallengeCreatedResponse{}, http.StatusCreated, []int{http.StatusUnauthorized}},
		{http.MethodGet, "/api/challenges/user/active", "Active challenges", "Lists the caller's unexpired challenges, newest first. Requires Bearer token.",
			nil, ActiveChallengesResponse{}, http.StatusOK, []int{http.StatusUnauthorized}},
		{http.MethodGet, "/api/challenges/{challengeID}", "Open challenge", "Returns the challenger's stats and counts one play.",
			challengePath{}, ChallengeResponse{}, http.StatusOK, []int{http.StatusNotFound}},
	}

	for _, o := range ops {
		oc, _ := r.NewOperationContext(o.method, o.path)
		oc.SetSummary(o.summary)
		oc.SetDescription(o.description)
		if o.req != nil {
			oc.AddReqStructure(o.req)
		}
		oc.AddRespStructure(o.resp, openapi.WithHTTPStatus(o.status))
		for _, status := range o.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	// GET /api/challenges/{challengeID}/qr
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/challenges/{challengeID}/qr")
	getQR.SetSummary("Challenge QR code")
	getQR.SetDescription("PNG QR code of the challenge share link. Does not count a play.")
	getQR.AddReqStructure(qrQuery{})
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQR)

	// GET /ws/leaderboard
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/leaderboard")
	getWS.SetSummary("Live leaderboard")
	getWS.SetDescription("Upgrades to a WebSocket that streams top-scores snapshots.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
