package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/imaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const maxImageBytes = 8 << 20

// ServiceHandler manages the service catalog shown on the landing site.
type ServiceHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, store storage.ObjectStore, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, store: store, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	DurationMin int      `json:"duration_min" binding:"required,min=1"`
	Price       float64  `json:"price" binding:"required,gt=0"`
}

type UpdateServiceRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Highlights  *[]string `json:"highlights,omitempty"`
	DurationMin *int      `json:"duration_min,omitempty" binding:"omitempty,min=1"`
	Price       *float64  `json:"price,omitempty" binding:"omitempty,gt=0"`
	Active      *bool     `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	svc := models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Highlights:  pq.StringArray(req.Highlights),
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		h.writeSaveError(c, err)
		return
	}

	h.record(c, "service_created", svc.ID)
	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Highlights != nil {
		svc.Highlights = pq.StringArray(*req.Highlights)
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(svc).Error; err != nil {
		h.writeSaveError(c, err)
		return
	}

	h.record(c, "service_updated", svc.ID)
	httpresp.OK(c, svc)
}

// UploadImage normalizes the multipart "image" field to webp and stores it as
// the service cover.
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	if h.store == nil {
		httperr.FromError(c, httperr.ErrInvalidState("image_storage_not_configured"), internalError)
		return
	}

	svc, ok := h.load(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "image_required", "Multipart field image is required.")
		return
	}
	if fh.Size > maxImageBytes {
		httperr.BadRequest(c, "image_too_large", "Image exceeds 8MB.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "image_unreadable", "Could not read image.")
		return
	}
	defer f.Close()

	body, err := imaging.ToWebP(f, imaging.DefaultMaxWidth)
	if errors.Is(err, imaging.ErrImageTooLarge) {
		httperr.BadRequest(c, "image_too_large", "Image dimensions are too large.")
		return
	}
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Unsupported image format.")
		return
	}

	key := fmt.Sprintf("services/%d/%s.webp", svc.ID, uuid.NewString())
	url, err := h.store.Put(c.Request.Context(), key, body, "image/webp")
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "image_upload_failed", "Could not store image.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(svc).
		Update("image_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update service.")
		return
	}
	svc.ImageURL = url

	h.record(c, "service_image_uploaded", svc.ID)
	httpresp.OK(c, svc)
}

// --------- Helpers ---------

func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_service", "Could not load service.")
		return nil, false
	}
	return &svc, true
}

func (h *ServiceHandler) writeSaveError(c *gin.Context, err error) {
	if httperr.IsUniqueViolation(err) {
		httperr.Write(c, http.StatusConflict, "service_name_taken", "A service with this name already exists.")
		return
	}
	_ = c.Error(err)
	httperr.Internal(c, "failed_to_save_service", "Could not save service.")
}

func (h *ServiceHandler) record(c *gin.Context, action string, id uint) {
	h.audit.Dispatch(audit.Event{
		ActorEmail: middleware.ActorEmail(c),
		Action:     action,
		Entity:     "service",
		EntityID:   &id,
	})
}
