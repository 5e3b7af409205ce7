package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltstock/internal/domain/issuance"
)

// IssuanceHandler handles shop-floor material issuance.
type IssuanceHandler struct {
	*BaseHandler
	recorder *issuance.Recorder
}

// NewIssuanceHandler creates a new issuance handler.
func NewIssuanceHandler(base *BaseHandler, recorder *issuance.Recorder) *IssuanceHandler {
	return &IssuanceHandler{
		BaseHandler: base,
		recorder:    recorder,
	}
}

// Issue handles POST /issuance - records actually issued quantities
// against a BOM and produces a confirmed production-issue order.
func (h *IssuanceHandler) Issue(c *gin.Context) {
	ctx := c.Request.Context()

	var req issuance.Request
	if !h.BindJSON(c, &req) {
		return
	}

	if req.Operator == "" {
		req.Operator = h.GetOperator(c)
	}

	result, err := h.recorder.IssueMaterials(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", result)
	c.JSON(http.StatusCreated, result)
}
