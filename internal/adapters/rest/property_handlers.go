package rest

import (
	"bytes"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/contracts"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type PropertyHandler struct {
	listUC    usecases_port.ListPropertiesUseCase
	detailsUC usecases_port.GetPropertyDetailsUseCase
	createUC  usecases_port.CreatePropertyUseCase
	updateUC  usecases_port.UpdatePropertyUseCase
	deleteUC  usecases_port.DeletePropertyUseCase
	validator *contracts.RequestValidator
}

func NewPropertyHandler(
	listUC usecases_port.ListPropertiesUseCase,
	detailsUC usecases_port.GetPropertyDetailsUseCase,
	createUC usecases_port.CreatePropertyUseCase,
	updateUC usecases_port.UpdatePropertyUseCase,
	deleteUC usecases_port.DeletePropertyUseCase,
	validator *contracts.RequestValidator,
) (*PropertyHandler, error) {
	if listUC == nil || detailsUC == nil || createUC == nil || updateUC == nil || deleteUC == nil {
		return nil, fmt.Errorf("property handler: use cases cannot be nil")
	}
	if validator == nil {
		return nil, fmt.Errorf("property handler: validator cannot be nil")
	}
	return &PropertyHandler{
		listUC:    listUC,
		detailsUC: detailsUC,
		createUC:  createUC,
		updateUC:  updateUC,
		deleteUC:  deleteUC,
		validator: validator,
	}, nil
}

// ListProperties обрабатывает GET /properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := parsePage(query)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	filters, err := parseListFilters(query)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	contextkeys.LoggerFromContext(r.Context()).Debug("Processing request to list properties", port.Fields{
		"handler": "ListProperties",
		"page":    page,
	})

	result, err := h.listUC.Execute(r.Context(), filters, page)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toPaginatedDto(result))
}

// GetProperty обрабатывает GET /properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, found, err := h.detailsUC.Execute(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if !found {
		WriteNotFound(w, r)
		return
	}

	RespondWithJSON(w, http.StatusOK, toDetailsDto(view))
}

// CreateProperty обрабатывает POST /properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := h.decodeBody(w, r, contracts.CreatePropertyRequestV1, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	created, err := h.createUC.Execute(r.Context(), req.toDomain())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	w.Header().Set("Location", "/properties/"+created.ID)
	RespondWithJSON(w, http.StatusCreated, toPropertyDto(*created))
}

// UpdateProperty обрабатывает PUT /properties/{id}
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdatePropertyRequest
	if err := h.decodeBody(w, r, contracts.UpdatePropertyRequestV1, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	found, err := h.updateUC.Execute(r.Context(), id, req.toDomain())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if !found {
		WriteNotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProperty обрабатывает DELETE /properties/{id}
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.deleteUC.Execute(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if !found {
		WriteNotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeBody читает тело, проверяет его по схеме и раскладывает в dst
func (h *PropertyHandler) decodeBody(w http.ResponseWriter, r *http.Request, schemaKey string, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.WithDetail(domain.ErrInvalidParameter, "request body is too large")
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.WithDetail(domain.ErrMissingParameter, "request body is required")
	}

	if err := h.validator.Validate(schemaKey, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return domain.WithDetail(domain.ErrInvalidParameter, err.Error())
	}
	return nil
}
