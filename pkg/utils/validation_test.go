package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("anna@example.com"))
	assert.True(t, IsValidEmail("  Anna@Example.COM  "))
	assert.True(t, IsValidEmail("a.b+c@sub.example.se"))

	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("anna"))
	assert.False(t, IsValidEmail("anna@example"))
	assert.False(t, IsValidEmail("anna @example.com"))
	assert.False(t, IsValidEmail("@example.com"))
}

func TestIsValidObjectID(t *testing.T) {
	assert.True(t, IsValidObjectID("64f0c3e2a1b2c3d4e5f60718"))
	assert.False(t, IsValidObjectID("not-an-id"))
	assert.False(t, IsValidObjectID(""))
	assert.False(t, IsValidObjectID("64f0c3e2a1b2c3d4e5f6071"))
}
