package vendors

import (
	"github.com/gin-gonic/gin"

	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/middleware"
)

// Handler exposes the vendor directory endpoints
type Handler struct {
	service *Service
}

// NewHandler creates the vendors handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires vendor endpoints onto the router group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	vendors := r.Group("/vendors")
	{
		vendors.POST("", h.Register)
		vendors.GET("", h.List)
	}
}

// RegisterRequest is the payload to add a vendor
type RegisterRequest struct {
	Name         string   `json:"name" validate:"required"`
	Sectors      []string `json:"sectors" validate:"required,min=1"`
	Locales      []string `json:"locales" validate:"required,min=1"`
	Rating       float64  `json:"rating" validate:"min=0,max=5"`
	ContactEmail string   `json:"contact_email" validate:"required,email"`
}

// Register adds a language service provider
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	vendor := h.service.Register(RegisterVendorInput{
		Name:         req.Name,
		Sectors:      req.Sectors,
		Locales:      req.Locales,
		Rating:       req.Rating,
		ContactEmail: req.ContactEmail,
	})
	common.CreatedResponse(c, vendor)
}

// List returns the vendor directory
func (h *Handler) List(c *gin.Context) {
	common.SuccessResponse(c, h.service.List())
}
