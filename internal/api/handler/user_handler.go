package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pinkbananas/users-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user records. Each endpoint makes a
// single service call and renders its result unchanged.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns every stored user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   userPayload
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserPayloads(users))
}

// Create stores the user, replacing any record with the same username. The
// body is required; numbers outside the 32-bit range are rejected.
//
// @Summary      Create or replace a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userPayload  true  "User record"
// @Success      200   {object}  userPayload
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	// Bind treats an empty body as an empty object.
	if c.Request().ContentLength == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var req userPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	saved, err := h.service.SaveUser(c.Request().Context(), toDomainUser(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserPayload(saved))
}

// Get returns the user stored under :id, or JSON null when there is none.
//
// @Summary      Get a user by username
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "Username"
// @Success      200  {object}  userPayload  "the user, or null when absent"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	found, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	u, ok := found.Get()
	if !ok {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, toUserPayload(u))
}

// Delete removes the user stored under :id. Missing users are not an error.
//
// @Summary      Delete a user by username
// @Tags         users
// @Param        id   path  string  true  "Username"
// @Success      200  "empty body"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
