package qrcode

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain"
)

func TestNewService_Levels(t *testing.T) {
	for _, level := range []string{"L", "M", "Q", "H", "invalid", ""} {
		t.Run(level, func(t *testing.T) {
			assert.NotNil(t, NewService(128, level))
		})
	}
}

func TestGenerateOrderQR(t *testing.T) {
	svc := NewService(256, "M")
	order := &domain.Order{ID: uuid.New(), VerificationCode: "ABC123"}

	png, err := svc.GenerateOrderQR(order)
	require.NoError(t, err)
	require.Greater(t, len(png), 4)

	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, png[:4])
}

func TestParseOrderQR(t *testing.T) {
	id := uuid.New()
	raw := `{"order_id":"` + id.String() + `","verification_code":"XYZ","type":"order_verification"}`

	gotID, code, err := ParseOrderQR(raw)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "XYZ", code)
	assert.True(t, LooksLikePayload(raw))
	assert.False(t, LooksLikePayload("XYZ"))
}

func TestParseOrderQR_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":     "ABC",
		"wrong type":   `{"order_id":"` + uuid.NewString() + `","verification_code":"X","type":"subscription"}`,
		"bad order id": `{"order_id":"nope","verification_code":"X","type":"order_verification"}`,
		"missing code": `{"order_id":"` + uuid.NewString() + `","type":"order_verification"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseOrderQR(raw)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}
