package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SeatLock holds short-lived locks on vehicle seats while a booking is
// pending. A lock key is scoped to vehicle + seat label and stores the
// booking ID that owns it, so only the owner can release early; everything
// else waits for the TTL.
type SeatLock struct {
	Client  *redis.Client
	LockTTL time.Duration
}

func NewSeatLock(client *redis.Client, ttl time.Duration) *SeatLock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SeatLock{Client: client, LockTTL: ttl}
}

func lockKey(vehicleID, seatLabel string) string {
	return fmt.Sprintf("seat_lock:%s:%s", vehicleID, seatLabel)
}

// CheckSeatAvailability reports whether a seat is currently unlocked.
func (s *SeatLock) CheckSeatAvailability(vehicleID, seatLabel string) (bool, error) {
	_, err := s.Client.Get(context.Background(), lockKey(vehicleID, seatLabel)).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// CheckSeatsAvailability checks several seats without locking any and returns
// the subset that is held.
func (s *SeatLock) CheckSeatsAvailability(vehicleID string, seatLabels []string) (bool, []string, error) {
	held := []string{}
	for _, label := range seatLabels {
		available, err := s.CheckSeatAvailability(vehicleID, label)
		if err != nil {
			return false, nil, err
		}
		if !available {
			held = append(held, label)
		}
	}
	if len(held) > 0 {
		return false, held, nil
	}
	return true, nil, nil
}

// LockSeat takes a single seat for the booking, failing if anyone else holds it.
func (s *SeatLock) LockSeat(vehicleID, seatLabel, bookingID string) (bool, error) {
	return s.Client.SetNX(context.Background(), lockKey(vehicleID, seatLabel), bookingID, s.LockTTL).Result()
}

// UnlockSeat releases a seat, but only when this booking owns the lock.
func (s *SeatLock) UnlockSeat(vehicleID, seatLabel, bookingID string) error {
	ctx := context.Background()
	key := lockKey(vehicleID, seatLabel)
	val, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released
	}
	if err != nil {
		return err
	}
	if val == bookingID {
		_, err := s.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}

// LockSeats takes all seats or none: any failure rolls back the seats locked
// so far.
func (s *SeatLock) LockSeats(vehicleID string, seatLabels []string, bookingID string) (bool, error) {
	locked := []string{}
	for _, label := range seatLabels {
		ok, err := s.LockSeat(vehicleID, label, bookingID)
		if err != nil {
			for _, l := range locked {
				_ = s.UnlockSeat(vehicleID, l, bookingID)
			}
			return false, err
		}
		if !ok {
			for _, l := range locked {
				_ = s.UnlockSeat(vehicleID, l, bookingID)
			}
			return false, nil
		}
		locked = append(locked, label)
	}
	return true, nil
}

// UnlockSeats releases every seat, reporting the first error seen but still
// attempting the rest.
func (s *SeatLock) UnlockSeats(vehicleID string, seatLabels []string, bookingID string) error {
	var firstErr error
	for _, label := range seatLabels {
		if err := s.UnlockSeat(vehicleID, label, bookingID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
