package event

import (
	"context"

	"github.com/djgowrishankar/TicketReservationAPI/entities"
)

type DataLake interface {
	Store(ctx context.Context, event entities.DataLakeEvent) error
}

type OpsBookingReadModel interface {
	OnBookingMade(ctx context.Context, event *entities.BookingMade_v1) error
	OnBookingCancelled(ctx context.Context, event *entities.BookingCancelled_v1) error
}

type Handler struct {
	dataLake     DataLake
	opsReadModel OpsBookingReadModel
}

func NewHandler(dataLake DataLake, opsReadModel OpsBookingReadModel) Handler {
	if dataLake == nil {
		panic("missing dataLake")
	}
	if opsReadModel == nil {
		panic("missing opsReadModel")
	}

	return Handler{
		dataLake:     dataLake,
		opsReadModel: opsReadModel,
	}
}
