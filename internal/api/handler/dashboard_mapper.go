package handler

import (
	"github.com/eventify/ticketing/internal/core/ports"
)

// --- Request → Service input ---

func toCreateEventInput(req createEventRequest) ports.CreateEventInput {
	in := ports.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Image:       req.Image,
		Venue: ports.VenueInput{
			Name:    req.Venue.Name,
			Address: req.Venue.Address,
			City:    req.Venue.City,
			State:   req.Venue.State,
			Zip:     req.Venue.Zip,
		},
		TicketTypes: make([]ports.TicketTypeInput, 0, len(req.TicketTypes)),
	}
	for _, tt := range req.TicketTypes {
		in.TicketTypes = append(in.TicketTypes, ports.TicketTypeInput{
			Name:        tt.Name,
			Price:       tt.Price,
			Description: tt.Description,
		})
	}
	return in
}
