package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openfield/auth-system/internal/core/authmodel"
	"github.com/openfield/auth-system/internal/core/model"
	"github.com/openfield/auth-system/internal/core/ports"
)

// ProfileHandler serves the profile form: reads expose the resolved readable
// set, writes go through the service which enforces the writable set.
type ProfileHandler struct {
	authService ports.AuthService
	settings    *model.Settings
	entity      *model.EntityType
}

func NewProfileHandler(authService ports.AuthService, settings *model.Settings, registry *model.Registry) *ProfileHandler {
	entity, ok := registry.Get(authmodel.EntityUsers)
	if !ok {
		panic("profile handler: auth_users entity type not registered")
	}
	return &ProfileHandler{authService: authService, settings: settings, entity: entity}
}

// Get returns the profile fields exposed as readable.
//
// @Summary      Read own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  errorResponse
// @Router       /v1/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	access, _ := h.settings.FieldAccess(model.FormProfile)
	rec := authmodel.UserRecord(user)

	out := map[string]any{"id": user.ID}
	for _, f := range h.entity.Fields() {
		// Always-visible fields keep their entity flag regardless of the
		// resolved set.
		if f.Readable || access.CanRead(f.Name) {
			out[f.Name] = rec[f.Name]
		}
	}
	delete(out, "password")

	return c.JSON(http.StatusOK, out)
}

// Update applies profile changes; fields outside the resolved writable set
// are dropped by the service.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var changes map[string]any
	if err := c.Bind(&changes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), requestContext(c), userID, changes)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
