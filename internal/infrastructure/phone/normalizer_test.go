package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/reparto-api/internal/infrastructure/phone"
)

func TestNormalize_SameNumberDifferentFormats(t *testing.T) {
	n := phone.NewNormalizer("AR")
	a := n.Normalize("+54 9 351 555-1234")
	b := n.Normalize("+5493515551234")
	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestNormalize_FallbackToDigits(t *testing.T) {
	n := phone.NewNormalizer("AR")
	assert.Equal(t, "12", n.Normalize("1-2"))
	assert.Equal(t, "", n.Normalize("   "))
	assert.Equal(t, "", n.Normalize("sin teléfono"))
}

func TestNewNormalizer_DefaultRegion(t *testing.T) {
	n := phone.NewNormalizer("")
	assert.Equal(t, n.Normalize("+5493515551234"), phone.NewNormalizer("ar").Normalize("+5493515551234"))
}
