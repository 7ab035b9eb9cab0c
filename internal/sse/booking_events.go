package sse

import (
	"context"
	"sync"

	"ms-booking/internal/models"
)

// BookingEventEmitter manages SSE connections and broadcasts booking status
// changes to subscribed clients.
type BookingEventEmitter struct {
	// key: userID, value: slice of client channels
	userClients     map[string][]chan models.Booking
	userClientMutex sync.RWMutex

	// key: bookingID, value: slice of client channels
	bookingClients     map[string][]chan models.Booking
	bookingClientMutex sync.RWMutex
}

func NewBookingEventEmitter() *BookingEventEmitter {
	return &BookingEventEmitter{
		userClients:    make(map[string][]chan models.Booking),
		bookingClients: make(map[string][]chan models.Booking),
	}
}

// SubscribeToUser adds a client to all booking events of one user.
func (e *BookingEventEmitter) SubscribeToUser(ctx context.Context, userID string) chan models.Booking {
	clientChan := make(chan models.Booking, 10)

	e.userClientMutex.Lock()
	e.userClients[userID] = append(e.userClients[userID], clientChan)
	e.userClientMutex.Unlock()

	go func() {
		<-ctx.Done()
		e.removeUserClient(userID, clientChan)
	}()

	return clientChan
}

// SubscribeToBooking adds a client to the status changes of one booking.
func (e *BookingEventEmitter) SubscribeToBooking(ctx context.Context, bookingID string) chan models.Booking {
	clientChan := make(chan models.Booking, 10)

	e.bookingClientMutex.Lock()
	e.bookingClients[bookingID] = append(e.bookingClients[bookingID], clientChan)
	e.bookingClientMutex.Unlock()

	go func() {
		<-ctx.Done()
		e.removeBookingClient(bookingID, clientChan)
	}()

	return clientChan
}

// EmitBookingEvent broadcasts a booking status change to every subscriber.
// Sends are non-blocking so one slow client cannot stall the emitter.
func (e *BookingEventEmitter) EmitBookingEvent(booking models.Booking) {
	e.userClientMutex.RLock()
	userChans := e.userClients[booking.UserID]
	e.userClientMutex.RUnlock()

	for _, clientChan := range userChans {
		select {
		case clientChan <- booking:
		default:
			// Channel buffer full, skip this client for now
		}
	}

	e.bookingClientMutex.RLock()
	bookingChans := e.bookingClients[booking.BookingID]
	e.bookingClientMutex.RUnlock()

	for _, clientChan := range bookingChans {
		select {
		case clientChan <- booking:
		default:
		}
	}
}

func (e *BookingEventEmitter) removeUserClient(userID string, clientChan chan models.Booking) {
	e.userClientMutex.Lock()
	defer e.userClientMutex.Unlock()

	clients := e.userClients[userID]
	for i, ch := range clients {
		if ch == clientChan {
			e.userClients[userID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.userClients[userID]) == 0 {
		delete(e.userClients, userID)
	}
}

func (e *BookingEventEmitter) removeBookingClient(bookingID string, clientChan chan models.Booking) {
	e.bookingClientMutex.Lock()
	defer e.bookingClientMutex.Unlock()

	clients := e.bookingClients[bookingID]
	for i, ch := range clients {
		if ch == clientChan {
			e.bookingClients[bookingID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.bookingClients[bookingID]) == 0 {
		delete(e.bookingClients, bookingID)
	}
}

// UserClientCount returns the number of clients subscribed to a user.
func (e *BookingEventEmitter) UserClientCount(userID string) int {
	e.userClientMutex.RLock()
	defer e.userClientMutex.RUnlock()
	return len(e.userClients[userID])
}

// BookingClientCount returns the number of clients subscribed to a booking.
func (e *BookingEventEmitter) BookingClientCount(bookingID string) int {
	e.bookingClientMutex.RLock()
	defer e.bookingClientMutex.RUnlock()
	return len(e.bookingClients[bookingID])
}
