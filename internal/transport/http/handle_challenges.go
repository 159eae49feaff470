package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
	"globetrotter/internal/app"
	"globetrotter/internal/domain"
	"globetrotter/internal/metrics"
)

type CreatedChallenge struct {
	ID        string    `json:"challenge_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ChallengeCreatedResponse struct {
	Success   bool             `json:"success"`
	Challenge CreatedChallenge `json:"challenge"`
}

type ActiveChallengesResponse struct {
	Success    bool               `json:"success"`
	Count      int                `json:"count"`
	Challenges []domain.Challenge `json:"challenges"`
}

type ChallengeResponse struct {
	Success   bool                     `json:"success"`
	Challenge domain.ResolvedChallenge `json:"challenge"`
}

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

func handleCreateChallenge(challenges *app.ChallengeService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := challenges.Create(r.Context(), identityFrom(r))
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		metrics.ChallengesCreated.Inc()
		writeJSON(w, http.StatusCreated, ChallengeCreatedResponse{
			Success:   true,
			Challenge: CreatedChallenge{ID: c.ID, CreatedAt: c.CreatedAt, ExpiresAt: c.ExpiresAt},
		})
	}
}

func handleActiveChallenges(challenges *app.ChallengeService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := challenges.ListActive(r.Context(), identityFrom(r))
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ActiveChallengesResponse{Success: true, Count: len(list), Challenges: list})
	}
}

func handleGetChallenge(challenges *app.ChallengeService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolved, err := challenges.Resolve(r.Context(), chi.URLParam(r, "challengeID"))
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		metrics.ChallengesResolved.Inc()
		writeJSON(w, http.StatusOK, ChallengeResponse{Success: true, Challenge: resolved})
	}
}

// handleChallengeQR renders the share link as a PNG. It does not count a play.
func handleChallengeQR(challenges *app.ChallengeService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		size := defaultQRSize
		if raw := r.URL.Query().Get("size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 64 || n > maxQRSize {
				rep.fail(w, r, domain.NewValidationError("size must be an integer between 64 and 1024"))
				return
			}
			size = n
		}

		link, err := challenges.ShareLink(r.Context(), chi.URLParam(r, "challengeID"))
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		png, err := qrcode.Encode(link, qrcode.Medium, size)
		if err != nil {
			rep.fail(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
