package domain

import "time"

// EventStatus is the publication state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventCancelled EventStatus = "CANCELLED"
)

// TicketStatus is the lifecycle state of a sold ticket.
type TicketStatus string

const (
	TicketActive    TicketStatus = "ACTIVE"
	TicketUsed      TicketStatus = "USED"
	TicketCancelled TicketStatus = "CANCELLED"
)

// DefaultTicketQuantity is the stock given to every ticket type created
// from the organizer dashboard.
const DefaultTicketQuantity = 100

// Venue is where an event takes place.
type Venue struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Capacity int    `json:"capacity,omitempty"`
}

// TicketType is a priced category of admission for an event.
type TicketType struct {
	Name              string  `json:"name" bson:"name"`
	Price             float64 `json:"price" bson:"price"`
	Description       string  `json:"description" bson:"description"`
	Quantity          int     `json:"quantity" bson:"quantity"`
	AvailableQuantity int     `json:"available_quantity" bson:"available_quantity"`
}

// Event is a ticketed happening owned by an organizer.
type Event struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	Image       string       `json:"image"`
	Status      EventStatus  `json:"status"`
	OrganizerID string       `json:"organizer_id"`
	Venue       *Venue       `json:"venue,omitempty"`
	TicketTypes []TicketType `json:"ticket_types"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Ticket is one sold admission.
type Ticket struct {
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
	UserID    string       `json:"user_id"`
	Price     float64      `json:"price"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// EventSummary is an organizer's view of one event with its sales.
type EventSummary struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Date        time.Time   `json:"date"`
	Status      EventStatus `json:"status"`
	TicketsSold int64       `json:"ticketsSold"`
	Revenue     float64     `json:"revenue"`
}

// DashboardStats aggregates an organizer's events and sales.
type DashboardStats struct {
	TotalEvents      int64   `json:"totalEvents"`
	ActiveEvents     int64   `json:"activeEvents"`
	TotalTicketsSold int64   `json:"totalTicketsSold"`
	TotalRevenue     float64 `json:"totalRevenue"`
}
