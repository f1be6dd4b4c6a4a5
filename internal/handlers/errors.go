package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/lotus/internal/services"
)

// mapServiceError converts expected service failures into fiber errors
// with the right status; anything unrecognized propagates and becomes a
// logged 500 at the app error handler.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Msg)
	}

	var transitionErr *services.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return fiber.NewError(fiber.StatusBadRequest, transitionErr.Error())
	}

	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrPromoNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPromoLoginRequired):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrPromoInactive),
		errors.Is(err, services.ErrPromoExpired),
		errors.Is(err, services.ErrPromoLimitReached):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrOrderCodeConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	return err
}
