package http

import (
	"net/http"

	"globetrotter/internal/app"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func handleSignup(users *app.UserService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		session, err := users.Signup(r.Context(), req.Username, req.Password)
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

func handleLogin(users *app.UserService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		session, err := users.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func handleLogout(users *app.UserService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := users.Logout(r.Context(), identityFrom(r)); err != nil {
			rep.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}

func handleProfile(users *app.UserService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.Profile(r.Context(), identityFrom(r))
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func handleStats(users *app.UserService, rep errorReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := users.Stats(r.Context(), identityFrom(r))
		if err != nil {
			rep.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
