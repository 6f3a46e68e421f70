package server

import (
	"fmt"
	"time"

	"echowall/internal/access"
	"echowall/internal/auth"
	"echowall/internal/middleware"
	"echowall/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const stateCookie = "oauth_state"

// GitHubLogin handles GET /api/auth/github. It parks a random state value
// in a short-lived cookie and sends the browser to the provider.
func (s *Server) GitHubLogin(c *fiber.Ctx) error {
	state := uuid.New().String()

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(s.github.AuthorizeURL(state), fiber.StatusTemporaryRedirect)
}

// GitHubCallback handles GET /api/auth/callback. The state check, the
// access gate, and the profile upsert all happen here; tokens are only
// issued to users the gate lets through.
func (s *Server) GitHubCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("OAuth state mismatch"))
	}
	c.ClearCookie(stateCookie)

	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing authorization code"))
	}

	ghUser, err := s.github.Exchange(c.Context(), code)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "oauth exchange failed", "error", err)
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("OAuth exchange failed"))
	}

	cfg := s.config
	decision := access.Check(ghUser.Login, cfg.AdminList(), access.ParseMode(cfg.AccessMode), cfg.AllowList(), cfg.BlockList())
	if !decision.Allowed {
		middleware.Logger.InfoContext(c.UserContext(), "login denied",
			"username", ghUser.Login, "reason", decision.Reason)
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Access denied: "+decision.Reason))
	}

	// The admin flag follows the configured list on every login, so
	// demotions take effect the next time the user signs in.
	user := &models.User{
		ID:        ghUser.UserID(),
		Username:  ghUser.Login,
		AvatarURL: ghUser.AvatarURL,
		IsAdmin:   access.IsAdmin(ghUser.Login, cfg.AdminList()),
	}
	if err := s.userRepo.Upsert(c.Context(), user); err != nil {
		return respondErr(c, err)
	}

	token, err := auth.IssueToken(cfg.JWTSecret, user.ID, user.Username)
	if err != nil {
		return respondErr(c, models.NewInternalError(err))
	}

	return c.Redirect(fmt.Sprintf("%s/#token=%s", cfg.FrontendURL, token), fiber.StatusTemporaryRedirect)
}

// Me handles GET /api/auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user)
}
