package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
)

type Handler struct {
	svc *Service
	jwt auth.JWTConfig
}

func NewHandler(svc *Service, jwt auth.JWTConfig) *Handler {
	return &Handler{svc: svc, jwt: jwt}
}

// RegisterPublicRoutes mounts the unauthenticated signup and login endpoints.
func (h *Handler) RegisterPublicRoutes(public *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
}

// RegisterRoutes mounts the endpoints that need an authenticated caller.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/auth/me", h.Me)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.Register(c.Request().Context(), &in)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	token, err := auth.IssueToken(h.jwt, u.ID, u.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "issue token")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Credential failures surface as 401, not the generic mapping.
		if apperr.KindOf(err) == apperr.KindForbidden {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	token, err := auth.IssueToken(h.jwt, u.ID, u.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "issue token")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

func (h *Handler) Me(c echo.Context) error {
	caller, ok := auth.CallerFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	u, err := h.svc.Get(c.Request().Context(), caller.ID)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, u)
}
