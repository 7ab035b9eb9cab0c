package seatmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/models"
	"ms-booking/internal/seatmap"
)

func boolPtr(b bool) *bool { return &b }

func TestResolvePattern_SeaterType(t *testing.T) {
	v := &models.Vehicle{SeaterType: "2*2"}
	p := seatmap.ResolvePattern(v, 4)

	assert.Equal(t, 2, p.Left)
	assert.Equal(t, 2, p.Right)
	assert.True(t, p.Aisle)
}

func TestResolvePattern_ExplicitConfigBeatsSeaterType(t *testing.T) {
	v := &models.Vehicle{
		SeaterType: "2*2",
		SeatConfig: &models.SeatConfig{Left: 3, Right: 1},
	}
	p := seatmap.ResolvePattern(v, 4)

	assert.Equal(t, 3, p.Left)
	assert.Equal(t, 1, p.Right)
	assert.True(t, p.Aisle)
}

func TestResolvePattern_ClipsRightFirstThenLeft(t *testing.T) {
	v := &models.Vehicle{SeatConfig: &models.SeatConfig{Left: 3, Right: 3}}

	// 6 declared columns but only 4 discovered: right is clipped first.
	p := seatmap.ResolvePattern(v, 4)
	assert.Equal(t, 3, p.Left)
	assert.Equal(t, 1, p.Right)

	// Only 2 discovered: right goes to zero, then left is clipped too.
	p = seatmap.ResolvePattern(v, 2)
	assert.Equal(t, 2, p.Left)
	assert.Equal(t, 0, p.Right)
	assert.False(t, p.Aisle, "no aisle without right-side columns")
}

func TestResolvePattern_PadsRightWhenUnderFallback(t *testing.T) {
	v := &models.Vehicle{SeaterType: "2*1"}
	p := seatmap.ResolvePattern(v, 5)

	assert.Equal(t, 2, p.Left)
	assert.Equal(t, 3, p.Right)
	assert.Equal(t, 5, p.Left+p.Right)
}

func TestResolvePattern_AisleExplicitlyDisabled(t *testing.T) {
	v := &models.Vehicle{SeatConfig: &models.SeatConfig{Left: 2, Right: 2, Aisle: boolPtr(false)}}
	p := seatmap.ResolvePattern(v, 4)

	assert.Equal(t, 2, p.Right)
	assert.False(t, p.Aisle)
}

func TestResolvePattern_ColumnCountFallback(t *testing.T) {
	cases := []struct {
		cols  int
		left  int
		right int
		aisle bool
	}{
		{0, 2, 1, true},
		{1, 1, 0, false},
		{2, 2, 0, false},
		{3, 2, 1, true},
		{5, 3, 2, true},
	}
	for _, c := range cases {
		p := seatmap.ResolvePattern(&models.Vehicle{}, c.cols)
		assert.Equal(t, c.left, p.Left, "cols=%d", c.cols)
		assert.Equal(t, c.right, p.Right, "cols=%d", c.cols)
		assert.Equal(t, c.aisle, p.Aisle, "cols=%d", c.cols)
	}
}

func TestResolvePattern_NegativeConfigCoercesToZero(t *testing.T) {
	v := &models.Vehicle{SeatConfig: &models.SeatConfig{Left: -2, Right: -1}}
	p := seatmap.ResolvePattern(v, 3)

	// Both sides coerce to 0, so the config is ignored and the column-count
	// fallback takes over.
	assert.Equal(t, 2, p.Left)
	assert.Equal(t, 1, p.Right)
}

func TestBuildDeck_TwoByTwo(t *testing.T) {
	v := &models.Vehicle{SeaterType: "2*2"}
	labels := []string{"1A", "1B", "1C", "1D", "2A", "2B", "2C", "2D"}

	deck := seatmap.BuildDeck(labels, v)
	require.Len(t, deck.Rows, 2)

	row := deck.Rows[0]
	assert.Equal(t, 1, row.Number)
	require.Len(t, row.LeftSeats, 2)
	require.Len(t, row.RightSeats, 2)
	assert.Equal(t, "1A", row.LeftSeats[0].Label)
	assert.Equal(t, "1B", row.LeftSeats[1].Label)
	assert.Equal(t, "1C", row.RightSeats[0].Label)
	assert.Equal(t, "1D", row.RightSeats[1].Label)
	assert.True(t, deck.Aisle)
}

func TestBuildDeck_PadsMissingSlotsWithNil(t *testing.T) {
	v := &models.Vehicle{SeaterType: "2*2"}
	labels := []string{"1A", "1D", "2B"}

	deck := seatmap.BuildDeck(labels, v)
	require.Len(t, deck.Rows, 2)

	for _, row := range deck.Rows {
		assert.Len(t, row.LeftSeats, deck.Pattern.Left)
		assert.Len(t, row.RightSeats, deck.Pattern.Right)
	}

	// Discovered columns are A, B, D so the 2*2 split clips to 2+1.
	assert.Equal(t, 2, deck.Pattern.Left)
	assert.Equal(t, 1, deck.Pattern.Right)

	row2 := deck.Rows[1]
	assert.Nil(t, row2.LeftSeats[0], "2A was never supplied")
	require.NotNil(t, row2.LeftSeats[1])
	assert.Equal(t, "2B", row2.LeftSeats[1].Label)
	assert.Nil(t, row2.RightSeats[0], "2D was never supplied")
}

func TestBuildDeck_PatternNeverExceedsDiscoveredColumns(t *testing.T) {
	v := &models.Vehicle{SeaterType: "2*2"}
	// Only columns A and C appear in the data, so the declared 2*2 split is
	// normalized down and both seats land on the left block.
	deck := seatmap.BuildDeck([]string{"1A", "1C"}, v)

	assert.Equal(t, []string{"A", "C"}, deck.Columns)
	assert.LessOrEqual(t, deck.Pattern.Left+deck.Pattern.Right, 2)
	require.Len(t, deck.Rows, 1)
	assert.Len(t, deck.Rows[0].LeftSeats, deck.Pattern.Left)
	assert.Len(t, deck.Rows[0].RightSeats, deck.Pattern.Right)
}

func TestBuildDeck_DiscardsUnparseableLabels(t *testing.T) {
	deck := seatmap.BuildDeck([]string{"1A", "A1", "", "??", "2B"}, &models.Vehicle{})

	require.Len(t, deck.Rows, 2)
	assert.Equal(t, []string{"A", "B"}, deck.Columns)
}

func TestBuildDeck_EmptyWhenNothingParses(t *testing.T) {
	deck := seatmap.BuildDeck([]string{"", "seat-one", "A"}, &models.Vehicle{})

	assert.Empty(t, deck.Rows)
	assert.Empty(t, deck.Columns)
}

func TestBuildDeck_MarksBookedSeats(t *testing.T) {
	v := &models.Vehicle{
		SeaterType:  "2*2",
		BookedSeats: []string{"1c", " 2D "},
	}
	labels := []string{"1A", "1B", "1C", "1D", "2A", "2B", "2C", "2D"}

	deck := seatmap.BuildDeck(labels, v)
	assert.True(t, deck.Rows[0].RightSeats[0].Booked, "1C is booked")
	assert.True(t, deck.Rows[1].RightSeats[1].Booked, "2D is booked")
	assert.False(t, deck.Rows[0].LeftSeats[0].Booked)

	assert.False(t, deck.SeatAvailable("1C"))
	assert.True(t, deck.SeatAvailable("1A"))
	assert.False(t, deck.SeatAvailable("9Z"), "unknown label is never available")
}

func TestBuildDeck_RowsSortedNumerically(t *testing.T) {
	deck := seatmap.BuildDeck([]string{"10A", "2A", "1A"}, &models.Vehicle{})

	require.Len(t, deck.Rows, 3)
	assert.Equal(t, 1, deck.Rows[0].Number)
	assert.Equal(t, 2, deck.Rows[1].Number)
	assert.Equal(t, 10, deck.Rows[2].Number)
}
