package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"github.com/wanderwise/wanderwise-api/config"
	"github.com/wanderwise/wanderwise-api/internal/api"
	"github.com/wanderwise/wanderwise-api/internal/types"
)

// SetupOAuthProviders registers the configured social sign-in providers with
// goth. Providers with no credentials configured are skipped.
func SetupOAuthProviders(cfg *config.Config, logger *slog.Logger) {
	var providers []goth.Provider
	if cfg.OAuth.Google.ClientKey != "" {
		providers = append(providers, google.New(
			cfg.OAuth.Google.ClientKey,
			cfg.OAuth.Google.Secret,
			cfg.OAuth.Google.CallbackURL,
			"email", "profile",
		))
	}
	if len(providers) == 0 {
		logger.Info("No OAuth providers configured, social sign-in disabled")
		return
	}
	goth.UseProviders(providers...)
}

// BeginOAuth starts the provider redirect flow for /auth/{provider}.
func (h *AuthHandler) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	r = withProvider(r)
	gothic.BeginAuthHandler(w, r)
}

// OAuthCallback completes the flow, finds or creates the matching user and
// returns the usual token pair.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	r = withProvider(r)
	l := h.logger.With(slog.String("handler", "OAuthCallback"))

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		l.WarnContext(r.Context(), "OAuth callback failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "OAuth sign-in failed")
		return
	}

	username := gothUser.NickName
	if username == "" {
		username = gothUser.Name
	}
	access, refresh, err := h.service.LoginOAuthUser(r.Context(), username, gothUser.Email)
	if err != nil {
		l.ErrorContext(r.Context(), "Failed to log in OAuth user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to complete sign-in")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.TokenResponse{AccessToken: access, RefreshToken: refresh})
}

// gothic resolves the provider from the request context; chi keeps it in a
// URL param instead of a query value.
func withProvider(r *http.Request) *http.Request {
	provider := chi.URLParam(r, "provider")
	return r.WithContext(context.WithValue(r.Context(), "provider", provider)) //nolint:staticcheck
}
