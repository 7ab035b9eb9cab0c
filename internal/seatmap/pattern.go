package seatmap

import (
	"regexp"
	"strconv"

	"ms-booking/internal/models"
)

// Pattern is the resolved left/right column split of a vehicle deck.
type Pattern struct {
	Left  int  `json:"left"`
	Right int  `json:"right"`
	Aisle bool `json:"aisle"`
}

var seaterTypeRe = regexp.MustCompile(`(\d+)\s*\*\s*(\d+)`)

// ResolvePattern derives the column split for a vehicle. Resolution order:
// explicit seat config, then the "L*R" seater-type string, then a split based
// purely on fallbackCols (the column count discovered from known seat labels).
func ResolvePattern(v *models.Vehicle, fallbackCols int) Pattern {
	if fallbackCols < 0 {
		fallbackCols = 0
	}

	if v != nil && v.SeatConfig != nil {
		left := clampNonNegative(v.SeatConfig.Left)
		right := clampNonNegative(v.SeatConfig.Right)
		if left > 0 || right > 0 {
			return normalize(left, right, fallbackCols, v.SeatConfig.Aisle)
		}
	}

	if v != nil && v.SeaterType != "" {
		if m := seaterTypeRe.FindStringSubmatch(v.SeaterType); m != nil {
			left, _ := strconv.Atoi(m[1])
			right, _ := strconv.Atoi(m[2])
			if left > 0 || right > 0 {
				return normalize(left, right, fallbackCols, nil)
			}
		}
	}

	return fallbackPattern(fallbackCols)
}

// normalize fits a declared left/right split to the known column count: clip
// right first then left when over, pad right when under. The aisle survives
// only while there are still right-side columns.
func normalize(left, right, fallbackCols int, aisle *bool) Pattern {
	if fallbackCols > 0 {
		for left+right > fallbackCols && right > 0 {
			right--
		}
		for left+right > fallbackCols && left > 0 {
			left--
		}
		if left+right < fallbackCols {
			right += fallbackCols - (left + right)
		}
	}

	hasAisle := right > 0
	if aisle != nil && !*aisle {
		hasAisle = false
	}
	return Pattern{Left: left, Right: right, Aisle: hasAisle}
}

func fallbackPattern(cols int) Pattern {
	switch {
	case cols == 0:
		return Pattern{Left: 2, Right: 1, Aisle: true}
	case cols <= 2:
		return Pattern{Left: cols, Right: 0, Aisle: false}
	default:
		left := (cols + 1) / 2
		return Pattern{Left: left, Right: cols - left, Aisle: true}
	}
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
