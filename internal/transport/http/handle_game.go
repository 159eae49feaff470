package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"globetrotter/internal/app"
	"globetrotter/internal/domain"
	"globetrotter/internal/metrics"
)

type CheckAnswerRequest struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}

func handleQuestions(questions *app.QuestionService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := 0
		if raw := r.URL.Query().Get("count"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				rep.fail(w, r, domain.NewValidationError("count must be an integer"))
				return
			}
			count = n
		}

		qs, err := questions.GetQuestions(r.Context(), count)
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func handleCheckAnswer(questions *app.QuestionService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckAnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := questions.CheckAnswer(r.Context(), identityFrom(r), req.ID, req.Answer)
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		metrics.RecordAnswer(result.Correct)
		writeJSON(w, http.StatusOK, result)
	}
}

func handleLeaderboard(board *app.LeaderboardService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sort, err := domain.ParseSortType(chi.URLParam(r, "sortType"))
		if err != nil {
			rep.fail(w, r, err)
			return
		}

		entries, err := board.Ranked(r.Context(), sort)
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
