package main

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"scouthub/internal/api"
	"scouthub/internal/api/handlers"
	"scouthub/internal/api/middleware"
	"scouthub/internal/engine/notifications"
	"scouthub/internal/engine/recruiting"
	"scouthub/internal/pkg/logger"
	"scouthub/internal/platform/auth"
	"scouthub/internal/platform/config"
	"scouthub/internal/platform/database"
	"scouthub/internal/platform/repositories"
	"scouthub/internal/realtime"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewPlayerProfileRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	scoutingRepo := recruiting.NewScoutingRepository(db)
	appRepo := recruiting.NewApplicationRepository(db)
	notificationRepo := notifications.NewRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	hub := realtime.NewHub(cfg.Realtime.SendBuffer)
	notifier := notifications.NewService(notificationRepo, hub)
	recruitingSvc := recruiting.NewService(scoutingRepo, appRepo, profileRepo, orgRepo, userRepo, notifier, hub)

	// Handlers
	deps := &api.Dependencies{
		AuthHandler:         handlers.NewAuthHandler(userRepo, tokenSvc),
		ProfileHandler:      handlers.NewProfileHandler(profileRepo),
		OrgHandler:          handlers.NewOrgHandler(orgRepo),
		ScoutingHandler:     handlers.NewScoutingHandler(recruitingSvc),
		ApplicationHandler:  handlers.NewApplicationHandler(recruitingSvc),
		RosterHandler:       handlers.NewRosterHandler(recruitingSvc),
		NotificationHandler: handlers.NewNotificationHandler(notifier),
		RealtimeHandler:     handlers.NewRealtimeHandler(hub, tokenSvc, cfg.Realtime),
		HealthHandler:       handlers.NewHealthHandler(db),
		AuthMiddleware:      middleware.NewAuthMiddleware(tokenSvc),
	}
	router := api.NewRouter(deps)

	// No server-level read/write timeouts: the websocket endpoint holds
	// connections open indefinitely and manages its own deadlines.
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     router,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	log.Info().Str("addr", addr).Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
