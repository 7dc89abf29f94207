package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/openfield/auth-system/internal/core/authmodel"
	"github.com/openfield/auth-system/internal/core/model"
)

// FormHandler publishes the resolved form visibility to form-rendering
// clients.
type FormHandler struct {
	settings *model.Settings
	entity   *model.EntityType
}

func NewFormHandler(settings *model.Settings, registry *model.Registry) *FormHandler {
	entity, ok := registry.Get(authmodel.EntityUsers)
	if !ok {
		panic("form handler: auth_users entity type not registered")
	}
	return &FormHandler{settings: settings, entity: entity}
}

type formResponse struct {
	Context  string   `json:"context"`
	Readable []string `json:"readable"`
	Writable []string `json:"writable"`
}

// Fields returns the readable/writable field sets of one form context.
// Always-visible fields are included: their entity flags survive hiding and
// resolution.
//
// @Summary      Resolved form field visibility
// @Tags         forms
// @Produce      json
// @Param        context  path      string  true  "Form context"  Enums(register, profile)
// @Success      200      {object}  formResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/forms/{context} [get]
func (h *FormHandler) Fields(c echo.Context) error {
	ctx := model.FormContext(c.Param("context"))
	if ctx != model.FormRegister && ctx != model.FormProfile {
		return echo.NewHTTPError(http.StatusNotFound, "unknown form context")
	}

	access, ok := h.settings.FieldAccess(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "form visibility not resolved")
	}

	readable, writable := h.effectiveSets(access)
	return c.JSON(http.StatusOK, formResponse{
		Context:  string(ctx),
		Readable: readable,
		Writable: writable,
	})
}

func (h *FormHandler) effectiveSets(access model.FieldAccess) (readable, writable []string) {
	rset := make(map[string]struct{}, len(access.Readable))
	wset := make(map[string]struct{}, len(access.Writable))
	for name := range access.Readable {
		rset[name] = struct{}{}
	}
	for name := range access.Writable {
		wset[name] = struct{}{}
	}
	for _, f := range h.entity.Fields() {
		if f.Readable {
			rset[f.Name] = struct{}{}
		}
		if f.Writable {
			wset[f.Name] = struct{}{}
		}
	}
	return sorted(rset), sorted(wset)
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
