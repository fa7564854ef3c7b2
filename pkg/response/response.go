// Package response writes the API's JSON envelope.
//
// Every response carries a "message" field plus payload-specific fields:
//
//	response.Created(w, "Product created successfully", response.Fields{
//	    "product": product,
//	})
//	// → 201 {"message":"Product created successfully","product":{...}}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/vastra/pkg/errs"
)

// Fields is the payload merged next to the message.
type Fields map[string]interface{}

func write(w http.ResponseWriter, status int, message string, fields Fields) {
	body := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["message"] = message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON writes an arbitrary status with message and payload fields.
func JSON(w http.ResponseWriter, status int, message string, fields Fields) {
	write(w, status, message, fields)
}

// Success sends a 200 with message and payload.
func Success(w http.ResponseWriter, message string, fields Fields) {
	write(w, http.StatusOK, message, fields)
}

// Created sends a 201 with message and payload.
func Created(w http.ResponseWriter, message string, fields Fields) {
	write(w, http.StatusCreated, message, fields)
}

// Error sends a bare error envelope with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, message, nil)
}

// FromErr maps an application error onto its status and message.
// Errors outside the taxonomy become a generic 500.
func FromErr(w http.ResponseWriter, err error) {
	write(w, errs.Status(err), errs.Message(err), nil)
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, fieldErrs map[string]string) {
	write(w, http.StatusBadRequest, "Validation failed", Fields{"errors": fieldErrs})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message ...string) {
	msg := "Unauthorized"
	if len(message) > 0 {
		msg = message[0]
	}
	Error(w, http.StatusUnauthorized, msg)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	Error(w, http.StatusNotFound, msg)
}
