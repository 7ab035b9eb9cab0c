// Package normalize maps the heterogeneous vehicle shapes different backends
// send into the one canonical models.Vehicle. It runs once, right after a
// payload is fetched, so nothing downstream ever guesses at field names.
package normalize

import (
	"encoding/json"
	"sort"
	"strings"

	"ms-booking/internal/models"
	"ms-booking/internal/pricing"
)

// rawVehicle accepts every field spelling observed in the wild. Numeric
// fields are decoded as any because some backends send them as strings.
type rawVehicle struct {
	ID            any                `json:"_id"`
	VehicleID     string             `json:"vehicle_id"`
	Name          string             `json:"name"`
	VehicleType   string             `json:"vehicleType"`
	SeaterType    string             `json:"seaterType"`
	SeatConfig    *models.SeatConfig `json:"seatConfig"`
	Seats         []json.RawMessage  `json:"seats"`
	SeatLayout    []string           `json:"seatLayout"`
	TotalSeats    any                `json:"totalSeats"`
	Capacity      any                `json:"capacity"`
	NumberOfSeats any                `json:"numberOfSeats"`
	BookedSeats   []string           `json:"bookedSeats"`
	PricePerSeat  any                `json:"pricePerSeat"`
	RouteFrom     string             `json:"routeFrom"`
	RouteTo       string             `json:"routeTo"`
}

type rawSeat struct {
	SeatNumber string `json:"seatNumber"`
	IsBooked   bool   `json:"isBooked"`
}

// Vehicle decodes a server vehicle payload into the canonical form. Unknown
// or malformed fields degrade to zero values; an undecodable body yields an
// empty vehicle and the decode error.
func Vehicle(data []byte) (models.Vehicle, error) {
	var raw rawVehicle
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Vehicle{}, err
	}
	return fromRaw(raw), nil
}

func fromRaw(raw rawVehicle) models.Vehicle {
	v := models.Vehicle{
		VehicleID:   firstNonEmpty(stringID(raw.ID), raw.VehicleID),
		Name:        raw.Name,
		VehicleType: raw.VehicleType,
		SeaterType:  strings.TrimSpace(raw.SeaterType),
		SeatConfig:  raw.SeatConfig,
	}

	bookedSet := map[string]bool{}
	for _, b := range raw.BookedSeats {
		if code := cleanLabel(b); code != "" {
			bookedSet[code] = true
		}
	}

	// seats can be a list of plain labels or of {seatNumber, isBooked}
	// objects; both feed the same label list.
	for _, rawSeatMsg := range raw.Seats {
		var label string
		if err := json.Unmarshal(rawSeatMsg, &label); err == nil {
			if code := cleanLabel(label); code != "" {
				v.SeatLabels = append(v.SeatLabels, code)
			}
			continue
		}
		var obj rawSeat
		if err := json.Unmarshal(rawSeatMsg, &obj); err != nil {
			continue
		}
		code := cleanLabel(obj.SeatNumber)
		if code == "" {
			continue
		}
		v.SeatLabels = append(v.SeatLabels, code)
		if obj.IsBooked {
			bookedSet[code] = true
		}
	}
	if len(v.SeatLabels) == 0 {
		for _, l := range raw.SeatLayout {
			if code := cleanLabel(l); code != "" {
				v.SeatLabels = append(v.SeatLabels, code)
			}
		}
	}

	for code := range bookedSet {
		v.BookedSeats = append(v.BookedSeats, code)
	}
	sort.Strings(v.BookedSeats)

	v.TotalSeats = firstPositiveInt(raw.TotalSeats, raw.Capacity, raw.NumberOfSeats)
	if v.TotalSeats == 0 {
		v.TotalSeats = len(v.SeatLabels)
	}
	v.PricePerSeat = pricing.Amount(raw.PricePerSeat)
	v.RouteFrom = raw.RouteFrom
	v.RouteTo = raw.RouteTo
	return v
}

func stringID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strings.TrimSuffix(strings.TrimSuffix(jsonNumber(id), ".0"), ".")
	default:
		return ""
	}
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func firstPositiveInt(values ...any) int {
	for _, v := range values {
		if n := int(pricing.Amount(v)); n > 0 {
			return n
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func cleanLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
