// Package validation implements the declarative field checks that run
// before a handler body: each request type builds an Errors map, and a
// non-empty map short-circuits the request with a 400 listing every
// violated field.
package validation

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/redmonkez12/devtree-api/internal/httputil"
)

// Errors maps a field name to the message describing its violation.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	// First violation per field wins, like chained validators
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e Errors) OK() bool {
	return len(e) == 0
}

// Respond writes the standard 400 payload listing the violated fields.
func Respond(w http.ResponseWriter, errs Errors) {
	httputil.RespondJSON(w, map[string]any{
		"error":  "Datos de entrada no válidos",
		"code":   httputil.CodeValidationFailed,
		"fields": errs,
	}, http.StatusBadRequest)
}

// Required adds a violation when the value is empty or whitespace.
func (e Errors) Required(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, message)
	}
}

// Email adds a violation when the value is not a parseable address.
func (e Errors) Email(field, value, message string) {
	if _, err := mail.ParseAddress(value); err != nil {
		e.Add(field, message)
	}
}

// MinLength adds a violation when the value is shorter than min bytes.
func (e Errors) MinLength(field, value string, min int, message string) {
	if len(value) < min {
		e.Add(field, message)
	}
}
