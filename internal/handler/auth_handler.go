package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusworks/teacher-portal-api/internal/dto"
	"github.com/campusworks/teacher-portal-api/internal/gateway"
	"github.com/campusworks/teacher-portal-api/internal/middleware"
	"github.com/campusworks/teacher-portal-api/internal/navigation"
	"github.com/campusworks/teacher-portal-api/internal/service"
	"github.com/campusworks/teacher-portal-api/internal/utils"
)

// AuthHandler handles teacher login and logout.
type AuthHandler struct {
	gw       *gateway.Client
	sessions service.SessionService
	registry *navigation.Registry
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(gw *gateway.Client, sessions service.SessionService, registry *navigation.Registry, ttl time.Duration, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		gw:       gw,
		sessions: sessions,
		registry: registry,
		ttl:      ttl,
		logger:   logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "uni_reg_id and password are required")
	}

	teacher, err := h.gw.Login(c.UserContext(), payload.UniRegID, payload.Password)
	if err != nil {
		var authErr *gateway.AuthError
		if errors.As(err, &authErr) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		h.logger.Error().Err(err).Msg("login upstream call failed")
		return utils.SendError(c, fiber.StatusBadGateway, "authentication service unavailable")
	}

	token, err := h.sessions.Create(c.UserContext(), teacher)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return utils.SendSuccess(c, "login successful", fiber.Map{
		"teacher": teacher,
	})
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	token := c.Cookies(middleware.SessionCookieName)
	if token != "" {
		if session, err := h.sessions.Resolve(c.UserContext(), token); err == nil {
			h.registry.Remove(session.ID)
		}
		if err := h.sessions.Destroy(c.UserContext(), token); err != nil && !errors.Is(err, service.ErrSessionNotFound) {
			h.logger.Warn().Err(err).Msg("failed to destroy session record")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return utils.SendSuccess(c, "logout successful", nil)
}
