package validation

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	errs := Errors{}
	errs.Required("handle", "", "El handle es requerido")
	errs.Required("name", "Ana", "El nombre es requerido")

	assert.False(t, errs.OK())
	assert.Equal(t, "El handle es requerido", errs["handle"])
	assert.NotContains(t, errs, "name")
}

func TestRequired_WhitespaceOnly(t *testing.T) {
	errs := Errors{}
	errs.Required("handle", "   ", "El handle es requerido")

	assert.Contains(t, errs, "handle")
}

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{value: "a@x.com", valid: true},
		{value: "not-an-email", valid: false},
		{value: "", valid: false},
		{value: "a@", valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			errs := Errors{}
			errs.Email("email", tc.value, "Email no válido")
			assert.Equal(t, tc.valid, errs.OK())
		})
	}
}

func TestMinLength(t *testing.T) {
	errs := Errors{}
	errs.MinLength("password", "short", 8, "El password debe tener mínimo 8 caracteres")
	assert.Contains(t, errs, "password")

	errs = Errors{}
	errs.MinLength("password", "long enough", 8, "El password debe tener mínimo 8 caracteres")
	assert.True(t, errs.OK())
}

func TestAdd_FirstViolationWins(t *testing.T) {
	errs := Errors{}
	errs.Required("password", "", "El password es requerido")
	errs.MinLength("password", "", 8, "El password debe tener mínimo 8 caracteres")

	assert.Equal(t, "El password es requerido", errs["password"])
}

func TestRespond(t *testing.T) {
	errs := Errors{}
	errs.Required("handle", "", "El handle es requerido")

	rec := httptest.NewRecorder()
	Respond(rec, errs)

	require.Equal(t, 400, rec.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.Equal(t, "El handle es requerido", body.Fields["handle"])
}
