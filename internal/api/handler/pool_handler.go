package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/api/metrics"
	"github.com/adroid/pool-registry/internal/core/ports"
)

// PoolHandler handles HTTP requests for pool records.
type PoolHandler struct {
	service ports.PoolService
}

func NewPoolHandler(service ports.PoolService) *PoolHandler {
	return &PoolHandler{service: service}
}

// List handles GET /pools.
//
// @Summary      List pools
// @Description  Returns every pool record, newest first.
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response{data=[]domain.Pool}
// @Failure      401  {object}  Response
// @Failure      500  {object}  Response
// @Router       /pools [get]
func (h *PoolHandler) List(c echo.Context) error {
	pools, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, pools)
}

// Search handles GET /pools/search?q=.
//
// @Summary      Search pools
// @Description  Case-insensitive substring match on home owner name or city.
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search term"
// @Success      200  {object}  Response{data=[]domain.Pool}
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Failure      500  {object}  Response
// @Router       /pools/search [get]
func (h *PoolHandler) Search(c echo.Context) error {
	pools, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, pools)
}

// Get handles GET /pools/:id.
//
// @Summary      Get a pool
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pool ID"
// @Success      200  {object}  Response{data=domain.Pool}
// @Failure      401  {object}  Response
// @Failure      404  {object}  Response
// @Failure      500  {object}  Response
// @Router       /pools/{id} [get]
func (h *PoolHandler) Get(c echo.Context) error {
	pool, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pool)
}

// Create handles POST /pools. The caller becomes the record's owner.
//
// @Summary      Create a pool
// @Tags         pools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      poolRequest  true  "Pool record"
// @Success      201   {object}  Response{data=domain.Pool}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      500   {object}  Response
// @Router       /pools [post]
func (h *PoolHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req poolRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pool, err := h.service.Create(c.Request().Context(), req.toInput(), user.ID)
	if err != nil {
		return err
	}

	metrics.PoolMutationsTotal.WithLabelValues("create").Inc()
	return respond(c, http.StatusCreated, pool)
}

// Update handles PUT /pools/:id. Every field is replaced.
//
// @Summary      Replace a pool
// @Tags         pools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Pool ID"
// @Param        body  body      poolRequest  true  "Pool record"
// @Success      200   {object}  Response{data=domain.Pool}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      403   {object}  Response
// @Failure      404   {object}  Response
// @Failure      500   {object}  Response
// @Router       /pools/{id} [put]
func (h *PoolHandler) Update(c echo.Context) error {
	var req poolRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pool, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}

	metrics.PoolMutationsTotal.WithLabelValues("update").Inc()
	return respond(c, http.StatusOK, pool)
}

// Delete handles DELETE /pools/:id.
//
// @Summary      Delete a pool
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pool ID"
// @Success      200  {object}  Response
// @Failure      401  {object}  Response
// @Failure      403  {object}  Response
// @Failure      404  {object}  Response
// @Failure      500  {object}  Response
// @Router       /pools/{id} [delete]
func (h *PoolHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.PoolMutationsTotal.WithLabelValues("delete").Inc()
	return respondMessage(c, http.StatusOK, "Pool deleted successfully")
}
