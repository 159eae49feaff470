package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, opts Options, svc Services) {
	rep := errorReporter{logger: opts.Logger, production: opts.Production}
	auth := authMiddleware(svc.Users, rep)

	r.Get("/", handleRoot())
	r.Get("/healthz", handleHealth(opts.Logger, opts.HealthChecks))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Globetrotter API", "/openapi.json", "/docs"))
	r.Get("/ws/leaderboard", NewWSHandler(svc.Leaderboard, opts.Logger).ServeWS)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", handleSignup(svc.Users, rep))
		r.Post("/login", handleLogin(svc.Users, rep))
		r.With(auth).Post("/logout", handleLogout(svc.Users, rep))
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", handleProfile(svc.Users, rep))
		r.Get("/stats", handleStats(svc.Users, rep))
	})

	r.Route("/api/game", func(r chi.Router) {
		r.Use(auth)
		r.Get("/questions", handleQuestions(svc.Questions, rep))
		r.Post("/check-answers", handleCheckAnswer(svc.Questions, rep))
	})

	r.Get("/api/leaderboard/{sortType}", handleLeaderboard(svc.Leaderboard, rep))

	r.Route("/api/challenges", func(r chi.Router) {
		r.With(auth).Post("/", handleCreateChallenge(svc.Challenges, rep))
		r.With(auth).Get("/user/active", handleActiveChallenges(svc.Challenges, rep))
		r.Get("/{challengeID}", handleGetChallenge(svc.Challenges, rep))
		r.Get("/{challengeID}/qr", handleChallengeQR(svc.Challenges, rep))
	})
}
