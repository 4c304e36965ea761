package cierre

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// HTTPError traduce los errores del motor a *fiber.Error.
func HTTPError(err error) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	var vf *ValidationFailure
	switch {
	case errors.As(err, &vf):
		return fiber.NewError(fiber.StatusUnprocessableEntity, vf.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrStateConflict), errors.Is(err, ErrClosingInProgress):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrAuthorization):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidPeriod):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPersistence):
		return fiber.NewError(fiber.StatusServiceUnavailable, "No se pudo completar la operación; reintente más tarde")
	}
	return err
}
