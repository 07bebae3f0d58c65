package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCedula(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"001-010190-0001A", "001-010190-0001A", true},
		{"0010101900001a", "001-010190-0001A", true},
		{" 281-150385-1002k ", "281-150385-1002K", true},
		{"001-010190-0001", "", false},
		{"00-010190-0001A", "", false},
		{"abc-defghi-jklmN", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeCedula(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestClientFullName(t *testing.T) {
	assert.Equal(t, "Ana López", Client{FirstName: "Ana", LastName: "López"}.FullName())
	assert.Equal(t, "Ana", Client{FirstName: "Ana"}.FullName())
}
