package handler

import (
	"net/http"

	"verttraue/internal/dto"
	"verttraue/internal/service"

	"github.com/gin-gonic/gin"
)

type AffiliatesHandler struct{ svc service.AffiliateService }

func NewAffiliatesHandler(svc service.AffiliateService) *AffiliatesHandler {
	return &AffiliatesHandler{svc: svc}
}

func (h *AffiliatesHandler) Create(c *gin.Context) {
	var req dto.CreateAffiliateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AffiliatesHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AffiliatesHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AffiliatesHandler) Update(c *gin.Context) {
	var req dto.UpdateAffiliateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AffiliatesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AffiliatesHandler) ListStock(c *gin.Context) {
	resp, err := h.svc.ListStock(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetStock writes an absolute allocation. A zero-quantity request that removes
// (or no-ops on) the row replies 204, otherwise the resulting row is returned.
func (h *AffiliatesHandler) SetStock(c *gin.Context) {
	var req dto.SetAffiliateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}
