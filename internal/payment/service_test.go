package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	// 10.07*100 is 1006.999... in float64; truncation would drop a paisa.
	assert.Equal(t, int64(1007), minorUnits(10.07))
	assert.Equal(t, int64(448000), minorUnits(4480))
	assert.Equal(t, int64(123456), minorUnits(1234.56))
	assert.Equal(t, int64(1), minorUnits(0.01))
	assert.Equal(t, int64(0), minorUnits(0))
}
