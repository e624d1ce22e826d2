package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tribe-health/growthbook/internal/connectors"
	"github.com/tribe-health/growthbook/internal/events"
	"github.com/tribe-health/growthbook/internal/models"
	"github.com/tribe-health/growthbook/internal/secrets"
	"github.com/tribe-health/growthbook/internal/store"
	"github.com/tribe-health/growthbook/internal/taglist"
)

const (
	DefaultLimit     = 20
	MaxLimit         = 100
	DefaultSortOrder = "asc"
	DefaultSortBy    = "created_at"

	testConnectionTimeout = 15 * time.Second
)

var AllowedSortByFields = map[string]bool{
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

// API provides the data source HTTP handlers.
type API struct {
	store     store.Store
	cipher    *secrets.Cipher
	publisher events.Publisher
}

// NewAPI creates a new API handler over the given store.
func NewAPI(st store.Store, cipher *secrets.Cipher, publisher events.Publisher) *API {
	return &API{store: st, cipher: cipher, publisher: publisher}
}

// RegisterRoutes registers the data source API routes with the given Gin router.
func (a *API) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", a.healthz)

	v1 := router.Group("/api/v1")
	sourceRoutes := v1.Group("/organizations/:org_id/datasources")
	{
		sourceRoutes.POST("", a.CreateDataSource)
		sourceRoutes.GET("", a.ListDataSources)
		sourceRoutes.GET("/:source_id", a.GetDataSource)
		sourceRoutes.PUT("/:source_id", a.UpdateDataSource)
		sourceRoutes.DELETE("/:source_id", a.DeleteDataSource)
	}
}

func (a *API) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondStoreError maps store sentinel errors to API responses.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrReadOnly):
		RespondWithError(c, http.StatusForbidden, models.ErrorCodeReadOnlyMode, err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, models.ErrorCodeDataSourceNotFound, "Data source not found", nil)
	case errors.Is(err, store.ErrDuplicate):
		RespondWithError(c, http.StatusConflict, models.ErrorCodeDuplicateName, "A data source with this name already exists in the organization.", nil)
	default:
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Internal server error", nil)
	}
}

// rejectIfReadOnly short-circuits mutating handlers in file-config mode, before
// any request parsing or connectivity probing happens. Reports whether the
// request was rejected.
func (a *API) rejectIfReadOnly(c *gin.Context) bool {
	if !a.store.ReadOnly() {
		return false
	}
	RespondWithError(c, http.StatusForbidden, models.ErrorCodeReadOnlyMode, store.ErrReadOnly.Error(), nil)
	return true
}

// respondBindError maps a payload binding failure to an API error, singling out
// enum violations (the source type field) with their own error code.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "oneof" {
				RespondWithError(c, http.StatusBadRequest, models.ErrorCodeInvalidEnumValue,
					fmt.Sprintf("Invalid value for field '%s'.", fe.Field()),
					gin.H{"field": fe.Field(), "value": fmt.Sprintf("%v", fe.Value())})
				return
			}
		}
	}
	RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid request payload", gin.H{"reason": err.Error()})
}

// checkParams validates the params shape and runs the live connectivity test.
// It writes the error response itself and reports whether the caller may proceed.
func (a *API) checkParams(c *gin.Context, sourceType string, params []byte) bool {
	if err := connectors.Validate(sourceType, params); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeInvalidParams, "Invalid connection params", gin.H{"reason": err.Error()})
		return false
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), testConnectionTimeout)
	defer cancel()
	if err := connectors.Test(ctx, sourceType, params); err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeConnectionFailed, "Could not connect to the data source backend", gin.H{"reason": err.Error()})
		return false
	}
	return true
}

// CreateDataSource godoc
// @Summary Create a new data source
// @Description Create a data source for the organization. Connectivity to the external backend is verified and connection params are encrypted before the record is persisted.
// @Tags datasources
// @Accept  json
// @Produce  json
// @Param   org_id  path   string  true  "Organization ID"
// @Param   data_source  body  models.CreateDataSourceRequest  true  "Data source to create"
// @Success 201 {object} models.DataSource "Successfully created data source"
// @Failure 400 {object} models.APIError "Bad Request (VALIDATION_ERROR, INVALID_ENUM_VALUE, INVALID_PARAMS, CONNECTION_FAILED)"
// @Failure 403 {object} models.APIError "Forbidden (READ_ONLY_MODE when running from a config file)"
// @Failure 409 {object} models.APIError "Conflict (DUPLICATE_NAME)"
// @Failure 500 {object} models.APIError "Internal Server Error"
// @Router /organizations/{org_id}/datasources [post]
func (a *API) CreateDataSource(c *gin.Context) {
	if a.rejectIfReadOnly(c) {
		return
	}
	org := c.Param("org_id")

	var req models.CreateDataSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if !a.checkParams(c, req.Type, req.Params) {
		return
	}

	encrypted, err := a.cipher.Encrypt(req.Params)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to encrypt connection params", nil)
		return
	}

	settings := models.Settings{}
	if req.Settings != nil {
		settings = *req.Settings
	}

	ds := models.DataSource{
		Organization:    org,
		Name:            req.Name,
		Type:            req.Type,
		Description:     req.Description,
		Projects:        models.StringList(taglist.Normalize(req.Projects...)),
		Settings:        settings,
		EncryptedParams: encrypted,
	}

	created, err := a.store.Create(c.Request.Context(), ds)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	a.publisher.Publish(events.KindCreated, created)
	RespondWithSuccess(c, http.StatusCreated, created)
}

// ListDataSources godoc
// @Summary List the organization's data sources
// @Description Get the organization's data sources, paginated and sorted. Connection params are never included in list responses.
// @Tags datasources
// @Produce  json
// @Param   org_id  path   string  true  "Organization ID"
// @Param   limit   query  int     false "Page size (max 100)"
// @Param   offset  query  int     false "Page offset"
// @Param   sort_by     query  string  false "Sort field: name, created_at or updated_at"
// @Param   sort_order  query  string  false "Sort order: asc or desc"
// @Success 200 {array} models.DataSource "Successfully retrieved data sources"
// @Failure 400 {object} models.APIError "Bad Request (VALIDATION_ERROR)"
// @Failure 500 {object} models.APIError "Internal Server Error"
// @Router /organizations/{org_id}/datasources [get]
func (a *API) ListDataSources(c *gin.Context) {
	org := c.Param("org_id")

	limitStr := c.DefaultQuery("limit", strconv.Itoa(DefaultLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid limit parameter: not a number.", gin.H{"limit": limitStr})
		return
	}
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}

	offsetStr := c.DefaultQuery("offset", "0")
	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid offset parameter: not a number.", gin.H{"offset": offsetStr})
		return
	}
	if offset < 0 {
		offset = 0
	}

	sortBy := c.DefaultQuery("sort_by", DefaultSortBy)
	if !AllowedSortByFields[sortBy] {
		allowed := make([]string, 0, len(AllowedSortByFields))
		for field := range AllowedSortByFields {
			allowed = append(allowed, field)
		}
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid sort_by field for data sources.", gin.H{"field": sortBy, "allowed": allowed})
		return
	}

	sortOrder := strings.ToLower(c.DefaultQuery("sort_order", DefaultSortOrder))
	if sortOrder != "asc" && sortOrder != "desc" {
		RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation, "Invalid sort_order value. Must be 'asc' or 'desc'.", gin.H{"value": c.Query("sort_order")})
		return
	}

	sources, err := a.store.ListByOrganization(c.Request.Context(), org, store.ListOptions{
		Limit:     limit,
		Offset:    offset,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	})
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to list data sources", nil)
		return
	}
	RespondWithSuccess(c, http.StatusOK, sources)
}

// GetDataSource godoc
// @Summary Get a specific data source by ID
// @Description Get one data source. The response includes the connection params with secret fields redacted.
// @Tags datasources
// @Produce  json
// @Param   org_id     path   string  true  "Organization ID"
// @Param   source_id  path   string  true  "Data source ID"
// @Success 200 {object} models.DataSourceResponse "Successfully retrieved data source"
// @Failure 404 {object} models.APIError "Not Found (DATA_SOURCE_NOT_FOUND)"
// @Failure 500 {object} models.APIError "Internal Server Error"
// @Router /organizations/{org_id}/datasources/{source_id} [get]
func (a *API) GetDataSource(c *gin.Context) {
	org := c.Param("org_id")
	id := c.Param("source_id")

	ds, err := a.store.Get(c.Request.Context(), org, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	plaintext, err := a.cipher.Decrypt(ds.EncryptedParams)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to decrypt connection params", nil)
		return
	}
	params, err := connectors.Redact(plaintext)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to decode connection params", nil)
		return
	}

	RespondWithSuccess(c, http.StatusOK, models.DataSourceResponse{DataSource: ds, Params: params})
}

// UpdateDataSource godoc
// @Summary Update an existing data source
// @Description Partially update a data source. Only provided fields are merged; when params are provided, connectivity is re-verified and the params are re-encrypted. The source type cannot be changed.
// @Tags datasources
// @Accept  json
// @Produce  json
// @Param   org_id     path   string  true  "Organization ID"
// @Param   source_id  path   string  true  "Data source ID"
// @Param   data_source  body  models.UpdateDataSourceRequest  true  "Fields to update"
// @Success 200 {object} models.DataSource "Successfully updated data source"
// @Failure 400 {object} models.APIError "Bad Request (VALIDATION_ERROR, INVALID_PARAMS, CONNECTION_FAILED)"
// @Failure 403 {object} models.APIError "Forbidden (READ_ONLY_MODE when running from a config file)"
// @Failure 404 {object} models.APIError "Not Found (DATA_SOURCE_NOT_FOUND)"
// @Failure 409 {object} models.APIError "Conflict (DUPLICATE_NAME)"
// @Failure 500 {object} models.APIError "Internal Server Error"
// @Router /organizations/{org_id}/datasources/{source_id} [put]
func (a *API) UpdateDataSource(c *gin.Context) {
	if a.rejectIfReadOnly(c) {
		return
	}
	org := c.Param("org_id")
	id := c.Param("source_id")

	var req models.UpdateDataSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ds, err := a.store.Get(c.Request.Context(), org, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if req.Name != nil {
		ds.Name = *req.Name
	}
	if req.Description != nil {
		ds.Description = *req.Description
	}
	if req.Projects != nil {
		ds.Projects = models.StringList(taglist.Normalize((*req.Projects)...))
	}
	if req.Settings != nil {
		ds.Settings = *req.Settings
	}
	if len(req.Params) > 0 {
		if !a.checkParams(c, ds.Type, req.Params) {
			return
		}
		encrypted, err := a.cipher.Encrypt(req.Params)
		if err != nil {
			RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError, "Failed to encrypt connection params", nil)
			return
		}
		ds.EncryptedParams = encrypted
	}

	updated, err := a.store.Update(c.Request.Context(), ds)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	a.publisher.Publish(events.KindUpdated, updated)
	RespondWithSuccess(c, http.StatusOK, updated)
}

// DeleteDataSource godoc
// @Summary Delete a data source
// @Description Delete a data source outright. There is no soft delete.
// @Tags datasources
// @Param   org_id     path   string  true  "Organization ID"
// @Param   source_id  path   string  true  "Data source ID"
// @Success 204 "Successfully deleted data source"
// @Failure 403 {object} models.APIError "Forbidden (READ_ONLY_MODE when running from a config file)"
// @Failure 404 {object} models.APIError "Not Found (DATA_SOURCE_NOT_FOUND)"
// @Failure 500 {object} models.APIError "Internal Server Error"
// @Router /organizations/{org_id}/datasources/{source_id} [delete]
func (a *API) DeleteDataSource(c *gin.Context) {
	if a.rejectIfReadOnly(c) {
		return
	}
	org := c.Param("org_id")
	id := c.Param("source_id")

	ds, err := a.store.Get(c.Request.Context(), org, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if err := a.store.Delete(c.Request.Context(), org, id); err != nil {
		respondStoreError(c, err)
		return
	}

	a.publisher.Publish(events.KindDeleted, ds)
	RespondWithSuccess(c, http.StatusNoContent, nil)
}
