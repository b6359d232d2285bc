package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/core/service"
	"github.com/trinv/stockroom/internal/port"
)

type InventoryHandler struct {
	inventory *service.InventoryService
}

func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

type itemRequest struct {
	Name         string          `json:"name" binding:"required"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category" binding:"required"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity" binding:"min=0"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Supplier     string          `json:"supplier"`
	ReorderLevel int             `json:"reorderLevel" binding:"min=0"`
}

func (r itemRequest) toDomain() domain.Item {
	return domain.Item{
		Name:         r.Name,
		SKU:          r.SKU,
		Category:     r.Category,
		Description:  r.Description,
		Quantity:     r.Quantity,
		Unit:         r.Unit,
		Price:        r.Price,
		Cost:         r.Cost,
		Supplier:     r.Supplier,
		ReorderLevel: r.ReorderLevel,
	}
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.inventory.Create(c.Request.Context(), req.toDomain(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, item)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.inventory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, item)
}

func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context(), port.ItemFilter{
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, items)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.inventory.Update(c.Request.Context(), c.Param("id"), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.inventory.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{})
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventory.ListLowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, items)
}

func (h *InventoryHandler) Categories(c *gin.Context) {
	categories, err := h.inventory.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, categories)
}

func (h *InventoryHandler) Search(c *gin.Context) {
	items, err := h.inventory.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, items)
}
