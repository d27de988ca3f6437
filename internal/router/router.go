package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"agencydesk/internal/assistant"
	"agencydesk/internal/config"
	"agencydesk/internal/handlers"
	"agencydesk/internal/middleware"
	"agencydesk/internal/models"
	"agencydesk/internal/notify"
	"agencydesk/internal/repository/postgres"
	"agencydesk/internal/service"
)

func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(log, cfg))

	// Probes
	r.Get("/healthz", handlers.Health())
	r.Get("/readyz", handlers.Ready(db))

	// Repos
	ticketRepo := postgres.NewTicketRepo(db)
	folderRepo := postgres.NewFolderRepo(db)
	timerRepo := postgres.NewTimerRepo(db)
	orgRepo := postgres.NewOrgRepo(db)
	profileRepo := postgres.NewProfileRepo(db)
	sopRepo := postgres.NewSOPRepo(db)

	// Revalidation hub
	hub := notify.NewHub(log)
	go hub.Run()

	// Services
	ticketSvc := service.NewTicketService(ticketRepo, folderRepo, hub, log)
	timerSvc := service.NewTimerService(timerRepo)
	authSvc := service.NewAuthService(profileRepo, cfg.SessionSecret)

	dispatcher := &assistant.Dispatcher{
		Tickets: ticketSvc,
		Timers:  timerSvc,
		Clients: &assistant.ProfileClients{Profiles: profileRepo},
	}
	assistantSvc := assistant.NewService(
		assistant.NewCompleter(cfg.OpenAIKey, cfg.AssistantModel),
		ticketRepo, ticketRepo, sopRepo, dispatcher, log,
	)

	// Handlers
	ah := handlers.NewAuthHTTP(authSvc, profileRepo)
	th := handlers.NewTicketHTTP(ticketSvc, timerSvc)
	fh := handlers.NewFolderHTTP(folderRepo)
	tm := handlers.NewTimerHTTP(timerSvc)
	as := handlers.NewAssistantHTTP(assistantSvc)
	ph := handlers.NewProfileHTTP(profileRepo)
	bh := handlers.NewBillingHTTP(orgRepo, profileRepo, cfg.BillingWebhookSecret, log)
	nh := handlers.NewNotifyHTTP(hub, cfg.Origin, log)

	// Public auth + webhook
	r.Post("/api/auth/register", ah.Register())
	r.Post("/api/auth/login", ah.Login())
	r.Post("/api/auth/logout", ah.Logout())
	r.Post("/api/webhooks/billing", bh.Webhook())

	// Authenticated, tenant-scoped surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/api/auth/me", ah.Me())

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOrg)

			r.Route("/api/tickets", func(r chi.Router) {
				r.Get("/", th.List())
				r.Post("/", th.Create())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", th.Get())
					r.With(middleware.RequireRoles(models.RoleAdmin)).Patch("/", th.Update())
					r.With(middleware.RequireRoles(models.RoleAdmin)).Put("/status", th.UpdateStatus())
					r.With(middleware.RequireRoles(models.RoleAdmin)).Delete("/", th.Delete())
					r.With(middleware.RequireRoles(models.RoleAdmin)).Get("/metrics", th.Metrics())
					r.With(middleware.RequireRoles(models.RoleAdmin)).Get("/sessions", tm.ListSessions())
					r.With(middleware.RequireRoles(models.RoleAdmin)).Post("/sessions", tm.AddSession())
				})
			})

			r.Route("/api/folders", func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin))
				r.Get("/", fh.List())
				r.Post("/", fh.Create())
				r.Patch("/{id}", fh.Update())
				r.Delete("/{id}", fh.Delete())
			})

			r.Route("/api/timer", func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin))
				r.Get("/", tm.Active())
				r.Post("/start", tm.Start())
				r.Post("/stop", tm.Stop())
			})
			r.With(middleware.RequireRoles(models.RoleAdmin)).
				Delete("/api/sessions/{id}", tm.DeleteSession())

			r.Post("/api/assistant/chat", as.Chat())

			r.Route("/api/profiles", func(r chi.Router) {
				r.With(middleware.RequireRoles(models.RoleAdmin)).Get("/", ph.List())
				r.With(middleware.RequireSelfOrRoles(models.RoleAdmin)).Get("/{id}", ph.Get())
				r.With(middleware.RequireRoles(models.RoleAdmin)).Patch("/{id}", ph.Update())
			})

			r.Get("/api/ws", nh.Serve())
		})
	})

	return r
}
