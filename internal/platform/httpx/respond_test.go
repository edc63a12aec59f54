package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samlap/samlap-web/internal/backend"
)

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) ProblemDetail {
	t.Helper()
	var p ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("name: %w", ErrValidation), http.StatusBadRequest},
		{&backend.StatusError{Status: http.StatusNotFound}, http.StatusNotFound},
		{fmt.Errorf("load: %w", backend.ErrTransport), http.StatusBadGateway},
		{&backend.StatusError{Status: http.StatusInternalServerError, Detail: "db down"}, http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)
		assert.Equal(t, tc.status, rr.Code, tc.err.Error())
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Equal(t, tc.status, decodeProblem(t, rr).Status)
	}
}

func TestRespondErrorCarriesUpstreamDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, &backend.StatusError{Status: http.StatusBadRequest, Detail: "Invalid year."})
	assert.Equal(t, "Invalid year.", decodeProblem(t, rr).Detail)
}
