// Package http provides HTTP handlers for records carrying encrypted attributes.
// Handlers only ever return plaintext for a single key or field; ciphertext,
// IVs and salts never leave the server.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/definescope/definerails-sensitivedata/internal/httputil"
	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
	"github.com/definescope/definerails-sensitivedata/internal/sensitivedata/http/dto"
	sensitivedataUseCase "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/usecase"
	customValidation "github.com/definescope/definerails-sensitivedata/internal/validation"
)

// RecordHandler handles HTTP requests for records and their encrypted data.
type RecordHandler struct {
	recordUseCase sensitivedataUseCase.RecordUseCase
	logger        *slog.Logger
}

// NewRecordHandler creates a new record handler with required dependencies.
func NewRecordHandler(recordUseCase sensitivedataUseCase.RecordUseCase, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		recordUseCase: recordUseCase,
		logger:        logger,
	}
}

func (h *RecordHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid record id"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

func (h *RecordHandler) parseDataKey(c *gin.Context) (string, bool) {
	key := c.Param("key")
	if err := dto.ValidateDataKey(key); err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("key: %w", err), h.logger)
		return "", false
	}
	return key, true
}

func (h *RecordHandler) parseFieldName(c *gin.Context) (string, bool) {
	name := c.Param("name")
	if err := dto.ValidateFieldName(name); err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("name: %w", err), h.logger)
		return "", false
	}
	return name, true
}

// CreateHandler creates an empty record of the given kind.
// POST /v1/records - Returns 201 Created with record metadata.
func (h *RecordHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateRecordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.recordUseCase.Create(c.Request.Context(), req.Kind)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordToResponse(record))
}

// ListHandler runs a sentinel query over one field.
// GET /v1/records?kind=K&field=F&state=nil|empty|encrypted&offset=0&limit=50
func (h *RecordHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	kind := c.Query("kind")
	if kind == "" || customValidation.Identifier.Validate(kind) != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid kind parameter"), h.logger)
		return
	}

	field := c.Query("field")
	if err := dto.ValidateFieldName(field); err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("field: %w", err), h.logger)
		return
	}

	state, err := sensitivedataDomain.ParseFieldState(c.Query("state"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	records, err := h.recordUseCase.FindByFieldState(c.Request.Context(), kind, field, state, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordsToListResponse(records))
}

// ListDataKeysHandler lists the keys stored in the record's sensitive data.
// GET /v1/records/:id/data
func (h *RecordHandler) ListDataKeysHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	keys, err := h.recordUseCase.ListDataKeys(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DataKeysResponse{Keys: keys})
}

// GetDataHandler returns one decrypted blob value. A missing key returns null.
// GET /v1/records/:id/data/:key
func (h *RecordHandler) GetDataHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	key, ok := h.parseDataKey(c)
	if !ok {
		return
	}

	value, err := h.recordUseCase.GetData(c.Request.Context(), id, key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DataValueResponse{Key: key, Value: value})
}

// SetDataHandler stores one blob value. A null value removes the key.
// PUT /v1/records/:id/data/:key - Returns 204 No Content.
func (h *RecordHandler) SetDataHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	key, ok := h.parseDataKey(c)
	if !ok {
		return
	}

	var req dto.SetDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.recordUseCase.SetData(c.Request.Context(), id, key, req.Value); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// DeleteDataHandler removes one blob key.
// DELETE /v1/records/:id/data/:key - Returns 204 No Content.
func (h *RecordHandler) DeleteDataHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	key, ok := h.parseDataKey(c)
	if !ok {
		return
	}

	if err := h.recordUseCase.DeleteData(c.Request.Context(), id, key); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// GetFieldHandler returns one decrypted scalar attribute.
// GET /v1/records/:id/fields/:name
func (h *RecordHandler) GetFieldHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	name, ok := h.parseFieldName(c)
	if !ok {
		return
	}

	value, err := h.recordUseCase.GetField(c.Request.Context(), id, name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.FieldValueResponse{Name: name, Value: value})
}

// SetFieldHandler stores one scalar attribute.
// PUT /v1/records/:id/fields/:name - Returns 204 No Content.
func (h *RecordHandler) SetFieldHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	name, ok := h.parseFieldName(c)
	if !ok {
		return
	}

	var req dto.SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.recordUseCase.SetField(c.Request.Context(), id, name, req.Value); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
