package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "scouthub/internal/api/context"
	"scouthub/internal/api/handlers"
	"scouthub/internal/api/middleware"
	"scouthub/internal/pkg/respond"
	"scouthub/internal/platform/auth"
	"scouthub/internal/platform/models"
)

type Dependencies struct {
	AuthHandler         *handlers.AuthHandler
	ProfileHandler      *handlers.ProfileHandler
	OrgHandler          *handlers.OrgHandler
	ScoutingHandler     *handlers.ScoutingHandler
	ApplicationHandler  *handlers.ApplicationHandler
	RosterHandler       *handlers.RosterHandler
	NotificationHandler *handlers.NotificationHandler
	RealtimeHandler     *handlers.RealtimeHandler
	HealthHandler       *handlers.HealthHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", wrap(deps.HealthHandler.Handle))

	// Authentication
	router.POST("/api/v1/auth/signup", wrap(deps.AuthHandler.Signup))
	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))
	router.POST("/api/v1/auth/refresh", wrap(deps.AuthHandler.Refresh))

	authMid := deps.AuthMiddleware

	// Player profiles
	router.POST("/api/v1/profiles",
		chain(deps.ProfileHandler.Create, authMid.Handle, requireRole(models.RolePlayer)))
	router.GET("/api/v1/profiles/me",
		chain(deps.ProfileHandler.GetOwn, authMid.Handle, requireRole(models.RolePlayer)))
	router.PATCH("/api/v1/profiles/me",
		chain(deps.ProfileHandler.Update, authMid.Handle, requireRole(models.RolePlayer)))

	// Organizations
	router.POST("/api/v1/organizations",
		chain(deps.OrgHandler.Create, authMid.Handle, requireRole(models.RoleOrganization)))
	router.GET("/api/v1/organizations/me",
		chain(deps.OrgHandler.GetOwn, authMid.Handle, requireRole(models.RoleOrganization)))
	router.PATCH("/api/v1/organizations/me",
		chain(deps.OrgHandler.Update, authMid.Handle, requireRole(models.RoleOrganization)))
	router.GET("/api/v1/organizations/me/scoutings",
		chain(deps.ScoutingHandler.ListOwn, authMid.Handle, requireRole(models.RoleOrganization)))

	// Scoutings
	router.POST("/api/v1/scoutings",
		chain(deps.ScoutingHandler.Create, authMid.Handle, requireRole(models.RoleOrganization)))
	router.GET("/api/v1/scoutings",
		chain(deps.ScoutingHandler.ListActive, authMid.Handle))
	router.GET("/api/v1/scoutings/:scouting_id",
		chain(deps.ScoutingHandler.Get, authMid.Handle))
	router.PATCH("/api/v1/scoutings/:scouting_id",
		chain(deps.ScoutingHandler.Update, authMid.Handle, requireRole(models.RoleOrganization)))
	router.POST("/api/v1/scoutings/:scouting_id/cancel",
		chain(deps.ScoutingHandler.Cancel, authMid.Handle, requireRole(models.RoleOrganization)))
	router.GET("/api/v1/scoutings/:scouting_id/applications",
		chain(deps.ScoutingHandler.ListApplicants, authMid.Handle, requireRole(models.RoleOrganization)))

	// Applications
	router.POST("/api/v1/scoutings/:scouting_id/apply",
		chain(deps.ApplicationHandler.Apply, authMid.Handle, requireRole(models.RolePlayer)))
	router.GET("/api/v1/applications/mine",
		chain(deps.ApplicationHandler.ListOwn, authMid.Handle, requireRole(models.RolePlayer)))
	router.POST("/api/v1/applications/:application_id/withdraw",
		chain(deps.ApplicationHandler.Withdraw, authMid.Handle, requireRole(models.RolePlayer)))
	router.POST("/api/v1/applications/:application_id/select",
		chain(deps.ApplicationHandler.Select, authMid.Handle, requireRole(models.RoleOrganization)))
	router.POST("/api/v1/applications/:application_id/reject",
		chain(deps.ApplicationHandler.Reject, authMid.Handle, requireRole(models.RoleOrganization)))

	// Roster
	router.GET("/api/v1/roster",
		chain(deps.RosterHandler.List, authMid.Handle, requireRole(models.RoleOrganization)))
	router.DELETE("/api/v1/roster/:player_id",
		chain(deps.RosterHandler.Remove, authMid.Handle, requireRole(models.RoleOrganization)))
	router.POST("/api/v1/roster/leave",
		chain(deps.RosterHandler.Leave, authMid.Handle, requireRole(models.RolePlayer)))

	// Notifications
	router.GET("/api/v1/notifications",
		chain(deps.NotificationHandler.List, authMid.Handle))
	router.POST("/api/v1/notifications/read-all",
		chain(deps.NotificationHandler.MarkAllRead, authMid.Handle))
	router.PATCH("/api/v1/notifications/:notification_id/read",
		chain(deps.NotificationHandler.MarkRead, authMid.Handle))

	// Live events; the credential travels as a query parameter.
	router.GET("/ws", wrap(deps.RealtimeHandler.Connect))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

func requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				respond.Error(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next(w, r)
		}
	}
}
