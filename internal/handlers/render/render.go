package render

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of the validation details array
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the uniform error body
// Details is present for validation failures only
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, data any) {
	JSONStatus(w, data, http.StatusOK)
}

// JSONStatus sends data as json and enforces status code
func JSONStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

// Error renders the uniform error body without details
func Error(w http.ResponseWriter, message string, code int) {
	JSONStatus(w, ErrorResponse{Error: message}, code)
}

// Internal collapses any unexpected failure to a generic response.
// Nothing about the underlying error reaches the client
func Internal(w http.ResponseWriter) {
	Error(w, "Internal server error", http.StatusInternalServerError)
}

// ValidationFailed renders a single hand-built field error
func ValidationFailed(w http.ResponseWriter, field string, message string) {
	JSONStatus(w, ErrorResponse{
		Error:   "Validation error",
		Details: []FieldError{{Field: field, Message: message}},
	}, http.StatusBadRequest)
}

// ValidationErrors renders field errors produced by the validator
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := ErrorResponse{
		Error:   "Validation error",
		Details: make([]FieldError, 0, len(errs)),
	}

	for _, fieldError := range errs {
		response.Details = append(response.Details, FieldError{
			Field:   fieldError.Field(),
			Message: messageForTag(fieldError),
		})
	}

	JSONStatus(w, response, http.StatusBadRequest)
}

// BindAndValidate decodes the JSON request body into type T and validates it
// using struct tags. Writes the error response itself on failure
func BindAndValidate[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		Error(w, "Invalid request body", http.StatusBadRequest)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		// cast is safe, T is expected to be a struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return value, err
	}

	return value, nil
}
