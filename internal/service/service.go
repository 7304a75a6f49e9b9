package service

import (
	"volare/internal/external"
)

type Services struct {
	Catalog      *CatalogService
	Reservations *ReservationService
}

func NewServices(flightsClient *external.FlightsClient) *Services {
	return &Services{
		Catalog:      NewCatalogService(flightsClient),
		Reservations: NewReservationService(flightsClient),
	}
}
