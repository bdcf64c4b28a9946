package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/matchday/prediction-pool/handlers"
	"github.com/matchday/prediction-pool/middleware"
	"github.com/matchday/prediction-pool/models"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Tournament   *handlers.TournamentHandler
	Match        *handlers.MatchHandler
	Prediction   *handlers.PredictionHandler
	Points       *handlers.PointsHandler
	Team         *handlers.TeamHandler
	Registration *handlers.RegistrationHandler
	WebSocket    *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.Authorize(string(models.RoleAdmin))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Post("/auth/signup", h.Auth.SignUp)
	router.Post("/auth/signin", h.Auth.SignIn)

	// Live standings feed, one room per tournament.
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeStandings)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)
		r.Get("/{tournamentID}/stages", h.Tournament.ListStages)
		r.Get("/{tournamentID}/matches", h.Match.ListByTournament)
		r.Get("/{tournamentID}/standings", h.Tournament.Standings)
		r.Get("/{tournamentID}/registrations", h.Registration.List)
		r.Get("/{tournamentID}/friends/{friendID}/scorecard", h.Tournament.Scorecard)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/{tournamentID}/registrations", h.Registration.Register)
			r.Delete("/{tournamentID}/registrations", h.Registration.Unregister)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", h.Tournament.Create)
				r.Post("/{tournamentID}/stages", h.Tournament.CreateStage)
			})
		})
	})

	router.Route("/stages", func(r chi.Router) {
		r.Get("/{stageID}/matches", h.Match.ListByStage)
		r.Get("/{stageID}/rule", h.Tournament.GetRule)
		r.Get("/{stageID}/points", h.Points.ListStagePoints)
		r.Get("/{stageID}/friends/{friendID}/predictions", h.Prediction.ListByStage)
		r.Get("/{stageID}/friends/{friendID}/table", h.Prediction.GroupTable)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Put("/{stageID}/rule", h.Tournament.SetRule)
			r.Post("/{stageID}/points", h.Points.AwardStagePoint)
			r.Delete("/points/{pointID}", h.Points.RevokeStagePoint)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.Get)
		r.Get("/{matchID}/predictions", h.Match.Predictions)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Put("/{matchID}/prediction", h.Prediction.Save)
			r.Get("/{matchID}/prediction", h.Prediction.GetOwn)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", h.Match.Create)
			r.Put("/{matchID}/result", h.Match.SetResult)
			r.Put("/{matchID}/teams", h.Match.SetTeams)
			r.Post("/{matchID}/top-scorer-points", h.Points.AwardTopScorerPoint)
			r.Delete("/top-scorer-points/{pointID}", h.Points.RevokeTopScorerPoint)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.List)
		r.Get("/{teamID}", h.Team.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", h.Team.Create)
			r.Post("/{teamID}/crest", h.Team.UploadCrest)
			r.Delete("/{teamID}/crest", h.Team.RemoveCrest)
		})
	})

	return router
}
