package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/service"
)

// InventoryHandler exposes the stock movement ledger: manual PURCHASE / SALE /
// RETURN entries, listing with filters, and exact reversal of a past entry.
type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req dto.CreateMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordMovement(c.Request.Context(), companyID(c), actorID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), companyID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// ReverseMovement deletes a ledger entry and rolls its delta back off the
// product, as one transaction.
func (h *InventoryHandler) ReverseMovement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ReverseMovement(c.Request.Context(), companyID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respondMsg(c, http.StatusOK, resp, "movement reversed")
}
