package common

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// Typed domain errors. Handlers translate these to HTTP responses through
// RespondError; everything unclassified is treated as a store failure and its
// detail is withheld unless FOODHUB_DEBUG_ERRORS is set.

// NotFoundError covers both absent resources and resources owned by another
// party, so ownership failures are indistinguishable from absence.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// UnavailableItemsError means at least one requested meal does not exist, is
// marked unavailable, or belongs to an inactive provider.
type UnavailableItemsError struct{}

func (e *UnavailableItemsError) Error() string {
	return "some meals are unavailable or do not exist"
}

// InvalidOrderError rejects an order payload the builder cannot accept, such
// as an empty cart or duplicate lines whose merged quantity exceeds the
// per-item bound.
type InvalidOrderError struct {
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return e.Reason
}

type MixedProviderError struct{}

func (e *MixedProviderError) Error() string {
	return "all items in an order must be from the same provider"
}

type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

type InvalidCancellationError struct {
	Status string
}

func (e *InvalidCancellationError) Error() string {
	return fmt.Sprintf("only placed orders can be cancelled, current status: %s", e.Status)
}

type EligibilityError struct{}

func (e *EligibilityError) Error() string {
	return "you can review only after a delivered order"
}

type DuplicateReviewError struct{}

func (e *DuplicateReviewError) Error() string {
	return "you already reviewed this meal"
}

// ForbiddenError covers resource-level authorization failures outside the
// order subsystem (orders deliberately report NotFoundError instead).
type ForbiddenError struct{}

func (e *ForbiddenError) Error() string {
	return "forbidden"
}

var debugErrors = os.Getenv("FOODHUB_DEBUG_ERRORS") != ""

// RespondError maps a service error to a standardized JSON error response.
func RespondError(c echo.Context, err error) error {
	var (
		notFound     *NotFoundError
		unavailable  *UnavailableItemsError
		invalidOrder *InvalidOrderError
		mixed        *MixedProviderError
		transition   *InvalidTransitionError
		cancellation *InvalidCancellationError
		eligibility  *EligibilityError
		duplicate    *DuplicateReviewError
		forbidden    *ForbiddenError
	)

	switch {
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", err.Error(), nil))
	case errors.As(err, &unavailable), errors.As(err, &invalidOrder),
		errors.As(err, &mixed), errors.As(err, &transition), errors.As(err, &cancellation):
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", err.Error(), nil))
	case errors.As(err, &eligibility), errors.As(err, &forbidden):
		return c.JSON(http.StatusForbidden, CreateErrorResponse("FORBIDDEN", err.Error(), nil))
	case errors.As(err, &duplicate):
		return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", err.Error(), nil))
	}

	message := "operation could not be completed"
	if debugErrors {
		message = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}
