package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "9876543210", Normalize("98765-43210"))
	assert.Equal(t, "9876543210", Normalize("(987) 654-3210"))
	assert.Equal(t, "", Normalize("abc"))
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate("9876543210"))
	assert.True(t, Validate("98765 43210"))
	assert.False(t, Validate("12345"))
	assert.False(t, Validate("919876543210"))
	assert.False(t, Validate(""))
}
