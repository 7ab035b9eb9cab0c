package voucher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/models"
)

func TestIssueVoucherProducesPNG(t *testing.T) {
	gen := NewGenerator("test-secret")

	qr, err := gen.IssueVoucher(models.Booking{
		BookingID:  "bk-1",
		UserID:     "user-1",
		Kind:       models.BookingKindVehicle,
		SeatLabels: []string{"1A"},
		FinalTotal: 1200,
	})

	require.NoError(t, err)
	require.NotEmpty(t, qr)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, qr[:4])
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	gen := NewGenerator("test-secret")

	encrypted, err := encryptAES([]byte(`{"booking_id":"bk-9","kind":"hotel"}`), gen.secret)
	require.NoError(t, err)

	payload, err := gen.Decode(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "bk-9", payload.BookingID)
	assert.Equal(t, "hotel", payload.Kind)
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	gen := NewGenerator("secret-a")
	other := NewGenerator("secret-b")

	encrypted, err := encryptAES([]byte(`{"booking_id":"bk-9"}`), gen.secret)
	require.NoError(t, err)

	_, err = other.Decode(encrypted)
	assert.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	gen := NewGenerator("test-secret")

	_, err := gen.Decode("not-base64!!!")
	assert.Error(t, err)

	_, err = gen.Decode("c2hvcnQ=") // valid base64, too short for an IV
	assert.Error(t, err)
}
