package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/adroid/pool-registry/internal/core/domain"
)

// Response is the JSON envelope shared by every endpoint.
type Response struct {
	Success bool                `json:"success"`
	Count   *int                `json:"count,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

func respondList(c echo.Context, status int, pools []*domain.Pool) error {
	if pools == nil {
		pools = []*domain.Pool{}
	}
	count := len(pools)
	return c.JSON(status, Response{Success: true, Count: &count, Data: pools})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, Response{Success: true, Message: msg})
}
