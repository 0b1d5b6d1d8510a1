package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"uk.co.dudmesh.multisig/internal/model"
	"uk.co.dudmesh.multisig/pkg/address"
	"uk.co.dudmesh.multisig/pkg/message"
)

type MessageService interface {
	Store(ctx context.Context, m *message.UserMessage) error
	Messages(ctx context.Context, address []byte) ([]*message.UserMessage, error)
	Stats(ctx context.Context) (model.Stats, error)
}

func Register(e *echo.Echo, messageService MessageService) {
	e.POST("/v1/messages", StoreMessage(messageService))
	e.POST("/v1/messages/query", QueryMessages(messageService))
	e.GET("/v1/messages/:address", GetMessages(messageService))
	e.GET("/v1/stats", Stats(messageService))
}

func StoreMessage(messageService MessageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &model.StoreMessageRequest{}
		if err := c.Bind(req); err != nil {
			return err
		}
		if err := messageService.Store(c.Request().Context(), req.UserMessage); err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, model.StoreMessageResponse{})
	}
}

func GetMessages(messageService MessageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		addr, err := address.Decode(c.Param("address"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return respondWithMessages(c, messageService, addr)
	}
}

// QueryMessages takes the address in the request body, for clients that
// hold raw address bytes rather than base58.
func QueryMessages(messageService MessageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &model.GetMessagesRequest{}
		if err := c.Bind(req); err != nil {
			return err
		}
		return respondWithMessages(c, messageService, req.Address)
	}
}

func Stats(messageService MessageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := messageService.Stats(c.Request().Context())
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, model.StatsResponse{
			Addresses:         stats.Addresses,
			RetentionDuration: stats.Settings.RetentionDuration.String(),
			AcceptanceWindow:  stats.Settings.AcceptanceWindow.String(),
		})
	}
}

func respondWithMessages(c echo.Context, messageService MessageService, addr []byte) error {
	userMessages, err := messageService.Messages(c.Request().Context(), addr)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.GetMessagesResponse{UserMessages: userMessages})
}

// httpError passes validation errors through verbatim and hides everything
// else behind a generic internal error.
func httpError(err error) error {
	switch {
	case model.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrorServiceClosed):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		log.Errorf("request failed: %+v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, model.ErrorInternal.Error())
	}
}
