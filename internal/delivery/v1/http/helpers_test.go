package http

import (
	"net/http"
	"testing"

	"github.com/einspot/storefront/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceToCents(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"whole", "10", 1000},
		{"two decimals", "19.99", 1999},
		{"one decimal", "0.5", 50},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePriceToCents(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriceToCents_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "-1", "10.123", "1000000000000"} {
		t.Run(input, func(t *testing.T) {
			_, err := parsePriceToCents(input)
			assert.Error(t, err)
		})
	}
}

func TestToHTTPResponse(t *testing.T) {
	code, msg := ToHTTPResponse(e.ErrProductNotFound)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, e.ErrProductNotFound.Error(), msg)

	code, _ = ToHTTPResponse(e.Wrap("handler.addItem", e.ErrEmptyProductID))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ToHTTPResponse(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, code)
}
