package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/core/service"
	"github.com/trinv/stockroom/internal/port"
)

type SalesHandler struct {
	sales   *service.SaleService
	reports *service.ReportService
}

func NewSalesHandler(sales *service.SaleService, reports *service.ReportService) *SalesHandler {
	return &SalesHandler{sales: sales, reports: reports}
}

type saleLineRequest struct {
	ItemID   string          `json:"itemId" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

type createSaleRequest struct {
	RequestID     string            `json:"requestId"`
	Customer      string            `json:"customer" binding:"required"`
	Items         []saleLineRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
	Status        string            `json:"status"`
	Notes         string            `json:"notes"`
}

func (h *SalesHandler) Create(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]domain.SaleItem, len(req.Items))
	for i, line := range req.Items {
		items[i] = domain.SaleItem{ItemID: line.ItemID, Quantity: line.Quantity, Price: line.Price}
	}

	sale, err := h.sales.Create(c.Request.Context(), service.CreateSaleInput{
		RequestID:     req.RequestID,
		Customer:      req.Customer,
		Items:         items,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Status:        domain.SaleStatus(req.Status),
		Notes:         req.Notes,
	}, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, sale)
}

func (h *SalesHandler) Get(c *gin.Context) {
	sale, err := h.sales.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, sale)
}

func (h *SalesHandler) List(c *gin.Context) {
	filter, err := saleFilterFromQuery(c)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	sales, err := h.sales.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, sales)
}

type updateSaleRequest struct {
	Customer      *string `json:"customer"`
	PaymentMethod *string `json:"paymentMethod"`
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
}

func (h *SalesHandler) Update(c *gin.Context) {
	var req updateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	in := service.UpdateSaleInput{
		Customer: req.Customer,
		Notes:    req.Notes,
	}
	if req.PaymentMethod != nil {
		pm := domain.PaymentMethod(*req.PaymentMethod)
		in.PaymentMethod = &pm
	}
	if req.Status != nil {
		st := domain.SaleStatus(*req.Status)
		in.Status = &st
	}

	sale, err := h.sales.Update(c.Request.Context(), c.Param("id"), in, callerID(c), callerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, sale)
}

func (h *SalesHandler) Delete(c *gin.Context) {
	err := h.sales.Delete(c.Request.Context(), c.Param("id"), callerID(c), callerRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{})
}

func (h *SalesHandler) Stats(c *gin.Context) {
	stats, err := h.sales.Stats(c.Request.Context(), port.StatsPeriod(c.Param("period")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stats)
}

func (h *SalesHandler) Export(c *gin.Context) {
	filter, err := saleFilterFromQuery(c)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.reports.SalesReport(c.Request.Context(), filter.From, filter.To)
	if err != nil {
		respondError(c, err)
		return
	}
	defer report.Close()

	filename := fmt.Sprintf("sales-report-%d.xlsx", time.Now().Unix())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := report.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func saleFilterFromQuery(c *gin.Context) (port.SaleFilter, error) {
	var filter port.SaleFilter
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("invalid startDate %q", v)
		}
		filter.From = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("invalid endDate %q", v)
		}
		// Inclusive through the end of the day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	return filter, nil
}
