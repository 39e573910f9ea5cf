package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"catalog-service/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes a coded error response with the given status.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service-layer failure onto an HTTP response:
// validation failures carry their field list back as 400, missing
// records are 404, write-time uniqueness violations are 409, and
// anything else is a generic 500 with the cause kept server-side.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeValidation,
			Message: "Validation failed",
			Fields:  validationErr.Fields,
		})
		return
	}

	var conflictErr *model.ConflictError
	if errors.As(err, &conflictErr) {
		writeJSON(w, http.StatusConflict, model.ErrorResponse{
			Error:   model.ErrCodeConflict,
			Message: conflictErr.Message,
			Fields:  []model.FieldError{{Field: conflictErr.Field, Message: conflictErr.Message}},
		})
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case model.ErrCodeCategoryNotFound, model.ErrCodeProductNotFound:
			writeJSON(w, http.StatusNotFound, model.ErrorResponse{
				Error:   domainErr.Code,
				Message: domainErr.Message,
			})
			return
		}
	}

	logger.Error().Err(err).Msg("unhandled service error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "internal server error",
	})
}

// isFormRequest reports whether the request body is form-encoded rather
// than JSON.
func isFormRequest(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

// decodeCategoryInput reads a category payload from a JSON or form body.
func decodeCategoryInput(r *http.Request) (model.CategoryInput, error) {
	var input model.CategoryInput

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			return input, err
		}
		input.Name = r.PostFormValue("name")
		input.Description = r.PostFormValue("description")
		return input, nil
	}

	err := json.NewDecoder(r.Body).Decode(&input)
	return input, err
}

// decodeProductInput reads a product payload from a JSON or form body.
// JSON clients may send the price as a number or a numeric string;
// either way it arrives as the raw text the price rule parses.
func decodeProductInput(r *http.Request) (model.ProductInput, error) {
	var input model.ProductInput

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			return input, err
		}
		input.Name = r.PostFormValue("name")
		input.PCode = r.PostFormValue("pcode")
		input.CategoryID = r.PostFormValue("category")
		input.Description = r.PostFormValue("description")
		input.Price = r.PostFormValue("price")
		return input, nil
	}

	var payload struct {
		Name        string      `json:"name"`
		PCode       string      `json:"pcode"`
		CategoryID  string      `json:"categoryId"`
		Description string      `json:"description"`
		Price       json.Number `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return input, err
	}

	input = model.ProductInput{
		Name:        payload.Name,
		PCode:       payload.PCode,
		CategoryID:  payload.CategoryID,
		Description: payload.Description,
		Price:       payload.Price.String(),
	}
	return input, nil
}
