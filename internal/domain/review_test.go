package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"locallink/internal/domain"
)

func TestMeanRating(t *testing.T) {
	assert.Equal(t, 0.0, domain.MeanRating(nil))
	assert.Equal(t, 4.0, domain.MeanRating([]int{4}))
	assert.Equal(t, 4.5, domain.MeanRating([]int{4, 5}))
	assert.InDelta(t, 3.333, domain.MeanRating([]int{1, 4, 5}), 0.001)
}
