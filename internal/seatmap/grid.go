package seatmap

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ms-booking/internal/models"
)

// Seat is one selectable slot in the deck grid.
type Seat struct {
	Label  string `json:"label"`
	Row    int    `json:"row"`
	Column string `json:"column"`
	Booked bool   `json:"booked"`
}

// Row holds the seats of one physical row, split around the aisle. Slots with
// no parsed seat are nil so the rendering grid stays rectangular.
type Row struct {
	Number     int     `json:"number"`
	LeftSeats  []*Seat `json:"left_seats"`
	RightSeats []*Seat `json:"right_seats"`
}

// Deck is the full row/column model of a vehicle used by selection UIs.
type Deck struct {
	Rows    []Row    `json:"rows"`
	Columns []string `json:"columns"`
	Pattern Pattern  `json:"pattern"`
	Aisle   bool     `json:"aisle"`
}

var seatLabelRe = regexp.MustCompile(`^(\d+)([A-Za-z]+)$`)

const columnAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// BuildDeck maps flat seat labels into the deck grid. Unparseable labels are
// dropped; if none parse the deck has no rows and the caller shows its empty
// state. Every returned row carries exactly Pattern.Left + Pattern.Right
// slots, nil-padded where the input had no seat for that cell.
func BuildDeck(labels []string, v *models.Vehicle) Deck {
	type parsed struct {
		row   int
		col   string
		label string
	}

	var seats []parsed
	rowSet := map[int]bool{}
	colSet := map[string]bool{}
	for _, raw := range labels {
		m := seatLabelRe.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}
		row, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		col := strings.ToUpper(m[2])
		seats = append(seats, parsed{row: row, col: col, label: m[1] + col})
		rowSet[row] = true
		colSet[col] = true
	}

	if len(seats) == 0 {
		return Deck{}
	}

	rows := make([]int, 0, len(rowSet))
	for r := range rowSet {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	cols := make([]string, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	pattern := ResolvePattern(v, len(cols))

	// Sparse data can discover fewer columns than the pattern declares; pad
	// with unused letters so the grid still has a slot per declared column.
	need := pattern.Left + pattern.Right
	for i := 0; len(cols) < need && i < len(columnAlphabet); i++ {
		letter := string(columnAlphabet[i])
		if colSet[letter] {
			continue
		}
		colSet[letter] = true
		cols = append(cols, letter)
	}
	sort.Strings(cols)

	booked := map[string]bool{}
	if v != nil {
		for _, b := range v.BookedSeats {
			booked[strings.ToUpper(strings.TrimSpace(b))] = true
		}
	}

	bySlot := map[int]map[string]*Seat{}
	for _, p := range seats {
		if bySlot[p.row] == nil {
			bySlot[p.row] = map[string]*Seat{}
		}
		bySlot[p.row][p.col] = &Seat{
			Label:  p.label,
			Row:    p.row,
			Column: p.col,
			Booked: booked[p.label],
		}
	}

	leftCols := cols[:min(pattern.Left, len(cols))]
	rightCols := cols[len(leftCols):]
	if len(rightCols) > pattern.Right {
		rightCols = rightCols[:pattern.Right]
	}

	deck := Deck{
		Columns: cols,
		Pattern: pattern,
		Aisle:   pattern.Aisle,
	}
	for _, r := range rows {
		row := Row{
			Number:     r,
			LeftSeats:  make([]*Seat, len(leftCols)),
			RightSeats: make([]*Seat, len(rightCols)),
		}
		for i, c := range leftCols {
			row.LeftSeats[i] = bySlot[r][c]
		}
		for i, c := range rightCols {
			row.RightSeats[i] = bySlot[r][c]
		}
		deck.Rows = append(deck.Rows, row)
	}
	return deck
}

// SeatAvailable reports whether a label exists in the deck and is not booked.
func (d Deck) SeatAvailable(label string) bool {
	label = strings.ToUpper(strings.TrimSpace(label))
	for _, row := range d.Rows {
		for _, s := range append(row.LeftSeats, row.RightSeats...) {
			if s != nil && s.Label == label {
				return !s.Booked
			}
		}
	}
	return false
}
