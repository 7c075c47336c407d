package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionResolver
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionResolver, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, cookie: cookie}
}

// Register creates a new account and logs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	h.cookie.set(c, token)
	return c.JSON(http.StatusCreated, authResponse{User: user, Redirect: domain.LandingPath(user.Role)})
}

// Login checks credentials and sets the auth cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return err
	}

	h.cookie.set(c, token)
	return c.JSON(http.StatusOK, authResponse{User: user, Redirect: domain.LandingPath(user.Role)})
}

// Logout clears the auth cookie. The token stays valid until it expires.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if s, err := ctxSession(c); err == nil {
		h.authService.RecordLogout(s, c.RealIP(), c.Request().UserAgent())
	}
	h.cookie.clear(c)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the account behind the request token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := h.sessions.CurrentUser(c.Request().Context(), requestToken(c))
	if !ok {
		return domain.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, meResponse{User: user})
}

// UpdateProfile edits name and email and reissues the auth cookie.
//
// @Summary      Update profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/user/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.UpdateProfile(c.Request().Context(), session.UserID, ports.ProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}

	h.cookie.set(c, token)
	return c.JSON(http.StatusOK, authResponse{User: user})
}
