package interaction

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	checker *Checker
}

func NewHandler(checker *Checker) *Handler {
	return &Handler{checker: checker}
}

// RegisterRoutes exposes the check to any authenticated caller.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/interactions/check", h.Check)
}

type checkRequest struct {
	Medicines []string `json:"medicines"`
}

func (h *Handler) Check(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Medicines) < 2 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":      "provide at least 2 medicines to check interactions",
			"interactions": []Interaction{},
		})
	}
	found := h.checker.Check(req.Medicines)
	if found == nil {
		found = []Interaction{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":        len(found),
		"interactions": found,
	})
}
