package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
)

// errorResponse maps domain errors to the status and message returned to clients.
func errorResponse(err error) (int, string) {
	var httpErr *echo.HTTPError

	switch {
	// a rejected booking may wrap ErrEventNotFound, it still answers 400
	case errors.Is(err, entities.ErrNotEnoughSeats):
		return http.StatusBadRequest, "Not enough seats available."
	case errors.Is(err, entities.ErrBookingRejected):
		return http.StatusBadRequest, "Booking failed. Check event availability."
	case errors.Is(err, entities.ErrEventNotFound):
		return http.StatusNotFound, "Event not found."
	case errors.Is(err, entities.ErrBookingNotFound):
		return http.StatusNotFound, "Booking not found."
	case errors.Is(err, entities.ErrInvalidEvent), errors.Is(err, entities.ErrInvalidBooking):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, entities.ErrEventHasBookings):
		return http.StatusConflict, "Event has bookings and cannot be deleted."
	case errors.As(err, &httpErr):
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

func HandleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := errorResponse(err)

	logger := log.FromContext(c.Request().Context()).WithError(err).WithField("status", code)
	if code >= http.StatusInternalServerError {
		logger.Error("Request failed")
	} else {
		logger.Debug("Request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, messageResponse{Message: msg})
	}
	if err != nil {
		logger.WithError(err).Error("Could not write error response")
	}
}
