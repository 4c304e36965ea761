package cierre

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("no encontrado")
	ErrStateConflict     = errors.New("transición inválida para el estado del período")
	ErrAuthorization     = errors.New("el usuario no tiene permiso para esta operación")
	ErrPersistence       = errors.New("error de persistencia")
	ErrInvalidPeriod     = errors.New("período inválido")
	ErrClosingInProgress = errors.New("hay otra operación de cierre en curso para esta zona y período")
)

// ValidationFailure: el período no puede cerrarse. Lleva el detalle por estación.
type ValidationFailure struct {
	Result *Validation
}

func (e *ValidationFailure) Error() string {
	if e.Result == nil {
		return "el período no cumple los requisitos de cierre"
	}
	return e.Result.Message
}

func conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrStateConflict, msg)
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// isDomain indica si err ya es parte de la taxonomía del motor.
func isDomain(err error) bool {
	var vf *ValidationFailure
	return errors.As(err, &vf) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStateConflict) ||
		errors.Is(err, ErrAuthorization) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrClosingInProgress) ||
		errors.Is(err, ErrPersistence)
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// CheckPeriod valida año y mes de un período.
func CheckPeriod(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: mes %d", ErrInvalidPeriod, month)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("%w: año %d", ErrInvalidPeriod, year)
	}
	return nil
}
