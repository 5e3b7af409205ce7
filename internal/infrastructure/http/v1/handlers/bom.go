package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
	"voltstock/internal/domain"
	"voltstock/internal/domain/bom"
	"voltstock/internal/infrastructure/http/v1/dto"
)

// BOMHandler handles bill-of-materials endpoints, including the issuance
// planning worksheet.
type BOMHandler struct {
	*BaseHandler
	service *bom.Service
	planner *bom.Planner
}

// NewBOMHandler creates a new BOM handler.
func NewBOMHandler(base *BaseHandler, service *bom.Service, planner *bom.Planner) *BOMHandler {
	return &BOMHandler{
		BaseHandler: base,
		service:     service,
		planner:     planner,
	}
}

// List handles GET /bom
func (h *BOMHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "code")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      dto.FromBOMs(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /bom/:id - header with line items.
func (h *BOMHandler) Get(c *gin.Context) {
	bomID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	header, err := h.service.GetWithItems(c.Request.Context(), bomID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBOM(header))
}

// Create handles POST /bom
func (h *BOMHandler) Create(c *gin.Context) {
	var req dto.CreateBOMRequest
	if !h.BindJSON(c, &req) {
		return
	}

	header, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Create(c.Request.Context(), header); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromBOM(header)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Update handles PUT /bom/:id
func (h *BOMHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	bomID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateBOMRequest
	if !h.BindJSON(c, &req) {
		return
	}

	header, err := h.service.GetWithItems(ctx, bomID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(header); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Update(ctx, header); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromBOM(header)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /bom/:id
func (h *BOMHandler) Delete(c *gin.Context) {
	bomID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), bomID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Activate handles POST /bom/:id/activate - makes the BOM issuable.
func (h *BOMHandler) Activate(c *gin.Context) {
	bomID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Activate(c.Request.Context(), bomID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "bom activated")
}

// Plan handles POST /bom/:id/plan - the issuance worksheet scaled to a
// production quantity.
func (h *BOMHandler) Plan(c *gin.Context) {
	bomID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.PlanIssuanceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	plan, err := h.planner.PlanIssuance(c.Request.Context(), bomID, req.ProductionQuantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}
