package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	events EventService,
	bookings BookingService,
	opsBookingRepo OpsBookingRepository,
) *echo.Echo {
	e := libHttp.NewEcho()
	e.HTTPErrorHandler = HandleError

	e.Use(otelecho.Middleware("tickets"))
	e.Use(useMetrics)
	e.Use(middleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler := Handler{
		events:         events,
		bookings:       bookings,
		opsBookingRepo: opsBookingRepo,
	}

	e.GET("/events", handler.GetEvents)
	e.POST("/events", handler.PostEvents)
	e.GET("/events/:id", handler.GetEvent)
	e.PUT("/events/:id", handler.PutEvent)
	e.DELETE("/events/:id", handler.DeleteEvent)

	e.POST("/bookings", handler.PostBookings)
	e.DELETE("/bookings/:id", handler.DeleteBooking)
	e.GET("/bookings/:user_name", handler.GetUserBookings)
	e.GET("/bookings/reference/:reference", handler.GetBookingByReference)

	e.GET("/ops/bookings", handler.GetOpsBookings)
	e.GET("/ops/bookings/:id", handler.GetOpsBookingByID)

	return e
}
