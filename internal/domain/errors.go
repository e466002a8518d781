package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// Booking-specific errors. Each failure mode of the booking flow surfaces
// as its own type so handlers can map them to distinct responses.

type NotAuthenticatedError struct {
	Err error
}

func (e NotAuthenticatedError) Error() string { return "utilisateur non authentifié" }

func (e NotAuthenticatedError) Unwrap() error { return e.Err }

type InvalidSeatCountError struct {
	Msg string
}

func (e InvalidSeatCountError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "nombre de places invalide"
}

type SelfBookingError struct{}

func (e SelfBookingError) Error() string {
	return "vous ne pouvez pas réserver votre propre trajet"
}

type DuplicateBookingError struct {
	Err error
}

func (e DuplicateBookingError) Error() string {
	return "vous avez déjà une réservation pour ce trajet"
}

func (e DuplicateBookingError) Unwrap() error { return e.Err }

type TripNotFoundError struct {
	Err error
}

func (e TripNotFoundError) Error() string { return "trajet introuvable" }

func (e TripNotFoundError) Unwrap() error { return e.Err }

// RepositoryError wraps any backend read/write failure during a booking
// operation.
type RepositoryError struct {
	Op  string
	Err error
}

func (e RepositoryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("repository: %v", e.Err)
}

func (e RepositoryError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsNotAuthenticated(err error) bool {
	var target NotAuthenticatedError
	return errors.As(err, &target)
}

func IsInvalidSeatCount(err error) bool {
	var target InvalidSeatCountError
	return errors.As(err, &target)
}

func IsSelfBooking(err error) bool {
	var target SelfBookingError
	return errors.As(err, &target)
}

func IsDuplicateBooking(err error) bool {
	var target DuplicateBookingError
	return errors.As(err, &target)
}

func IsTripNotFound(err error) bool {
	var target TripNotFoundError
	return errors.As(err, &target)
}

func IsRepository(err error) bool {
	var target RepositoryError
	return errors.As(err, &target)
}
