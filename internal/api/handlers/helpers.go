package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	apiContext "scouthub/internal/api/context"
	"scouthub/internal/engine/recruiting"
	"scouthub/internal/pkg/respond"
	"scouthub/internal/platform/auth"
)

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(apiContext.Claims).(*auth.Claims)
	return claims
}

func paramFrom(r *http.Request, name string) string {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return params.ByName(name)
}

// writeDomainError maps a workflow failure onto the response envelope.
// Business-rule violations go back verbatim; everything else is logged and
// collapsed into a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case recruiting.IsNotFound(err):
		respond.Error(w, http.StatusNotFound, err.Error())
	case recruiting.IsDomainError(err):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
