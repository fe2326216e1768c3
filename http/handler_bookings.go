package http

import (
	"fmt"
	"net/http"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type bookingResponse struct {
	Message string           `json:"message"`
	Booking entities.Booking `json:"booking"`
}

func (h Handler) PostBookings(c echo.Context) error {
	var req entities.BookTicketsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	booking, err := h.bookings.Book(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookingResponse{
		Message: "Tickets booked successfully.",
		Booking: booking,
	})
}

func (h Handler) DeleteBooking(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fmt.Errorf("%w: %q", entities.ErrBookingNotFound, c.Param("id"))
	}

	if _, err := h.bookings.Cancel(c.Request().Context(), bookingID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Booking cancelled successfully."})
}

func (h Handler) GetUserBookings(c echo.Context) error {
	bookings, err := h.bookings.ListForUser(c.Request().Context(), c.Param("user_name"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookings)
}

func (h Handler) GetBookingByReference(c echo.Context) error {
	booking, err := h.bookings.GetByReference(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, booking)
}
