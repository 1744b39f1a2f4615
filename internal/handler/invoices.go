package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/apierror"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/dto"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/service"
)

type InvoicesHandler struct{ svc service.InvoiceService }

func NewInvoicesHandler(svc service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

func (h *InvoicesHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID := actorID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), companyID(c), *userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), companyID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *InvoicesHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), companyID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *InvoicesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *InvoicesHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), companyID(c), id); err != nil {
		writeError(c, err)
		return
	}
	respondMsg(c, http.StatusOK, nil, "invoice cancelled; stock was not modified")
}

func (h *InvoicesHandler) Restock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID := actorID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}
	resp, err := h.svc.Restock(c.Request.Context(), companyID(c), *userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	respondMsg(c, http.StatusOK, resp, "stock restored")
}

func (h *InvoicesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID := actorID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), companyID(c), *userID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
