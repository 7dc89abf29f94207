package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openfield/auth-system/internal/api/metrics"
	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
	"github.com/openfield/auth-system/internal/core/ports"
)

// AccountHandler exposes the administrative account state operations.
type AccountHandler struct {
	accounts ports.AccountOperations
}

func NewAccountHandler(accounts ports.AccountOperations) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountResponse struct {
	User   *domain.User         `json:"user"`
	Status domain.AccountStatus `json:"status"`
}

// Disable suspends an account.
//
// @Summary      Disable an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account ID"
// @Success      200 {object}  accountResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/accounts/{id}/disable [post]
func (h *AccountHandler) Disable(c echo.Context) error {
	return h.apply(c, "disable", h.accounts.Disable)
}

// Block suspends an account.
//
// @Summary      Block an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account ID"
// @Success      200 {object}  accountResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/accounts/{id}/block [post]
func (h *AccountHandler) Block(c echo.Context) error {
	return h.apply(c, "block", h.accounts.Block)
}

// Allow reactivates an account.
//
// @Summary      Allow an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account ID"
// @Success      200 {object}  accountResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/accounts/{id}/allow [post]
func (h *AccountHandler) Allow(c echo.Context) error {
	return h.apply(c, "allow", h.accounts.Allow)
}

type accountOp func(ctx context.Context, req *model.RequestContext, userID string) (*domain.User, error)

func (h *AccountHandler) apply(c echo.Context, name string, op accountOp) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing account id")
	}

	user, err := op(c.Request().Context(), requestContext(c), id)
	if err != nil {
		return err
	}

	metrics.AccountStateChangesTotal.WithLabelValues(name).Inc()
	return c.JSON(http.StatusOK, accountResponse{User: user, Status: user.Status()})
}
