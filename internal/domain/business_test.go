package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain"
	"locallink/internal/pkg/validate"
)

func TestLocation_UnmarshalJSON(t *testing.T) {
	t.Run("Bare address", func(t *testing.T) {
		var loc domain.Location
		require.NoError(t, json.Unmarshal([]byte(`"12 Long St, Cape Town"`), &loc))
		assert.Equal(t, "12 Long St, Cape Town", loc.Address)
		assert.Empty(t, loc.Coordinates)
	})

	t.Run("Object", func(t *testing.T) {
		var loc domain.Location
		require.NoError(t, json.Unmarshal([]byte(`{"address":"Soweto","coordinates":[27.85,-26.26]}`), &loc))
		assert.Equal(t, "Soweto", loc.Address)
		assert.Equal(t, []float64{27.85, -26.26}, loc.Coordinates)
	})

	t.Run("Nested in input", func(t *testing.T) {
		var input domain.RegisterInput
		require.NoError(t, json.Unmarshal([]byte(`{"email":"a@b.co","location":"Durban"}`), &input))
		require.NotNil(t, input.Location)
		assert.Equal(t, "Durban", input.Location.Address)
	})
}

func TestLocation_Scan(t *testing.T) {
	var loc domain.Location
	require.NoError(t, loc.Scan([]byte(`{"address":"Pretoria"}`)))
	assert.Equal(t, "Pretoria", loc.Address)

	require.NoError(t, loc.Scan(nil))
	assert.Error(t, loc.Scan(42))
}

func TestBusiness_HidesPassword(t *testing.T) {
	b := domain.Business{Email: "a@b.co", PasswordHash: "secret-hash"}
	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret-hash")
	assert.NotContains(t, string(out), "password")
}

func TestInputs_RejectBlankNames(t *testing.T) {
	blank := "   "
	price := 1.0

	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"Register", &domain.RegisterInput{Email: "a@b.co", Password: "secret1", BusinessName: blank}, "business_name is required"},
		{"UpdateBusiness", &domain.UpdateBusinessInput{BusinessName: &blank}, "business_name is required"},
		{"CreateProduct", &domain.CreateProductInput{Name: blank, Price: &price}, "name is required"},
		{"UpdateProduct", &domain.UpdateProductInput{Name: &blank}, "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}
