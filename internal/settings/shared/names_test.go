package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNames(t *testing.T) {
	got := NewNames([]string{" Tripoli", "Benghazi", "", "Tripoli ", "Misrata", "  "}, []string{"Benghazi"})
	assert.Equal(t, []string{"Tripoli", "Misrata"}, got)
	assert.Empty(t, NewNames(nil, nil))
}

func TestRespondMapsErrors(t *testing.T) {
	cases := map[error]int{
		ErrInvalidID:     http.StatusBadRequest,
		ErrRequiredField: http.StatusBadRequest,
		ErrNotFound:      http.StatusNotFound,
		ErrDuplicate:     http.StatusConflict,
		ErrWriteFailed:   http.StatusBadGateway,
		ErrLoadFailed:    http.StatusServiceUnavailable,
	}
	for err, status := range cases {
		rr := httptest.NewRecorder()
		Respond(rr, discardLogger(), "test", err)
		assert.Equal(t, status, rr.Code, err.Error())
	}
}
