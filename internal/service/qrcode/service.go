package qrcode

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

const payloadType = "order_verification"

var ErrInvalidPayload = errors.New("invalid order QR payload")

// Payload is the JSON encoded into an order QR code.
type Payload struct {
	OrderID          string `json:"order_id"`
	VerificationCode string `json:"verification_code"`
	Type             string `json:"type"`
}

type Service struct {
	size  int
	level qrcode.RecoveryLevel
}

func NewService(size int, level string) *Service {
	var recovery qrcode.RecoveryLevel
	switch strings.ToUpper(level) {
	case "L":
		recovery = qrcode.Low
	case "Q":
		recovery = qrcode.High
	case "H":
		recovery = qrcode.Highest
	default:
		recovery = qrcode.Medium
	}
	if size <= 0 {
		size = 256
	}
	return &Service{size: size, level: recovery}
}

// GenerateOrderQR renders the order's verification payload as a PNG.
func (s *Service) GenerateOrderQR(order *domain.Order) ([]byte, error) {
	data, err := json.Marshal(Payload{
		OrderID:          order.ID.String(),
		VerificationCode: order.VerificationCode,
		Type:             payloadType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal qr payload")
	}

	code, err := qrcode.New(string(data), s.level)
	if err != nil {
		return nil, errors.Wrap(err, "create qr code")
	}

	png, err := code.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "render qr png")
	}
	return png, nil
}

// ParseOrderQR decodes a scanned payload into the order id and its code.
func ParseOrderQR(raw string) (uuid.UUID, string, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return uuid.Nil, "", ErrInvalidPayload
	}
	if p.Type != payloadType || p.VerificationCode == "" {
		return uuid.Nil, "", ErrInvalidPayload
	}
	orderID, err := uuid.Parse(p.OrderID)
	if err != nil {
		return uuid.Nil, "", ErrInvalidPayload
	}
	return orderID, p.VerificationCode, nil
}

// LooksLikePayload reports whether input is a scanned QR payload rather than a bare code.
func LooksLikePayload(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "{")
}
