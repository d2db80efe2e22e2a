package handler

import (
	"fmt"
	"net/http"
	"strings"

	appcustomer "github.com/crm/backend/internal/application/customer"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	service *appcustomer.Service
}

// NewCustomerHandler creates a customer handler
func NewCustomerHandler(service *appcustomer.Service) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/customers")
	{
		customers.GET("", h.Find)
		customers.GET("/:id", h.GetByID)
		customers.POST("", h.Create)
		customers.PUT("/:id", h.Update)
		customers.DELETE("", h.DeleteByEmail)
		customers.DELETE("/:id", h.DeleteByID)
	}
}

// GetByID handles GET /customers/:id. The customer's version travels as an
// ETag; a matching If-None-Match short-circuits to 304.
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	cust, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if cust == nil {
		h.NotFound(c, "Customer not found")
		return
	}

	etag := versionETag(cust.Version)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", etag)
	h.Success(c, toCustomerResponse(cust))
}

// Find handles GET /customers with optional search parameters
func (h *CustomerHandler) Find(c *gin.Context) {
	stream, err := h.service.Find(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	customers, err := stream.Collect(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(customers) == 0 {
		h.NotFound(c, "No customers found")
		return
	}

	h.Success(c, toCustomerResponses(customers))
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.toCustomer())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%s", c.Request.URL.Path, created.ID))
	h.Created(c, toCustomerResponse(created))
}

// Update handles PUT /customers/:id. The expected version arrives in the
// If-Match header; a write without one is rejected.
func (h *CustomerHandler) Update(c *gin.Context) {
	id := c.Param("id")

	version := strings.Trim(c.GetHeader("If-Match"), `"`)
	if version == "" {
		h.PreconditionRequired(c, "If-Match header with the current version is required")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), req.toCustomer(), id, version)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if updated == nil {
		h.NotFound(c, "Customer not found")
		return
	}

	c.Header("ETag", versionETag(updated.Version))
	h.NoContent(c)
}

// DeleteByID handles DELETE /customers/:id
func (h *CustomerHandler) DeleteByID(c *gin.Context) {
	if err := h.service.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DeleteByEmail handles DELETE /customers?email=
func (h *CustomerHandler) DeleteByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		h.BadRequest(c, "email query parameter is required")
		return
	}

	count, err := h.service.DeleteByEmail(c.Request.Context(), email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": count})
}

func versionETag(version int64) string {
	return fmt.Sprintf(`"%d"`, version)
}
