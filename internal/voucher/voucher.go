package voucher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"github.com/skip2/go-qrcode"

	"ms-booking/internal/models"
)

// Payload is the data sealed inside a voucher QR. It is what the front desk
// or driver scans to verify a booking offline.
type Payload struct {
	BookingID  string   `json:"booking_id"`
	UserID     string   `json:"user_id"`
	Kind       string   `json:"kind"`
	SeatLabels []string `json:"seat_labels,omitempty"`
	FinalTotal float64  `json:"final_total"`
}

type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:]}
}

// IssueVoucher seals the booking payload and renders it as a PNG QR code.
func (g *Generator) IssueVoucher(booking models.Booking) ([]byte, error) {
	payload := Payload{
		BookingID:  booking.BookingID,
		UserID:     booking.UserID,
		Kind:       booking.Kind,
		SeatLabels: booking.SeatLabels,
		FinalTotal: booking.FinalTotal,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, g.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

// Decode reverses the encrypted string scanned from a voucher QR back into
// its payload.
func (g *Generator) Decode(encrypted string) (*Payload, error) {
	data, err := decryptAES(encrypted, g.secret)
	if err != nil {
		return nil, err
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload.BookingID == "" {
		return nil, errors.New("voucher payload has no booking id")
	}
	return &payload, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:aes.BlockSize]
	data := make([]byte, len(ciphertext)-aes.BlockSize)

	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])

	return data, nil
}
