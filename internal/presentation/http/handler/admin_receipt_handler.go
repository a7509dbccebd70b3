package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receiptflow/internal/application/service"
	"github.com/sangkips/receiptflow/internal/export"
	"github.com/sangkips/receiptflow/internal/presentation/http/dto/request"
	"github.com/sangkips/receiptflow/internal/presentation/http/dto/response"
	"github.com/sangkips/receiptflow/pkg/apperror"
	"go.uber.org/zap"
)

// AdminReceiptHandler handles the dashboard receipt endpoints
type AdminReceiptHandler struct {
	receiptService   *service.ReceiptService
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

// NewAdminReceiptHandler creates a new admin receipt handler
func NewAdminReceiptHandler(receiptService *service.ReceiptService, dashboardService *service.DashboardService, logger *zap.Logger) *AdminReceiptHandler {
	return &AdminReceiptHandler{
		receiptService:   receiptService,
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// List handles listing receipts with search, status filter and pagination
func (h *AdminReceiptHandler) List(c *gin.Context) {
	var q request.ListReceiptsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.receiptService.ListReceiptsPage(c.Request.Context(), service.ListReceiptsInput{
		Search:  q.Search,
		Status:  q.Status,
		Page:    q.Page,
		PerPage: q.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Receipts retrieved successfully", result)
}

// Generate handles creating a receipt from the dashboard form
func (h *AdminReceiptHandler) Generate(c *gin.Context) {
	var req request.GenerateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.GenerateReceipt(c.Request.Context(), req.ToForm())
	if err != nil {
		response.Error(c, err)
		return
	}

	h.logger.Info("Receipt generated from dashboard",
		zap.Int64("receipt_id", receipt.ID),
		zap.String("admin", GetUserEmail(c)),
	)
	response.Created(c, "Receipt generated successfully", receipt)
}

// Get handles fetching one receipt
func (h *AdminReceiptHandler) Get(c *gin.Context) {
	id, ok := parseReceiptID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Delete handles removing a receipt
func (h *AdminReceiptHandler) Delete(c *gin.Context) {
	id, ok := parseReceiptID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	if err := h.receiptService.DeleteReceipt(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt deleted successfully", nil)
}

// Resend handles mailing the receipt link again
func (h *AdminReceiptHandler) Resend(c *gin.Context) {
	id, ok := parseReceiptID(c)
	if !ok {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.ResendEmail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt email sent successfully", receipt)
}

// Export streams the filtered receipts as CSV or XLSX
func (h *AdminReceiptHandler) Export(c *gin.Context) {
	var q request.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if q.Format == "" {
		q.Format = string(export.FormatCSV)
	}

	format, err := export.ParseFormat(q.Format)
	if err != nil {
		response.Error(c, apperror.NewBadRequestError(err.Error()))
		return
	}

	var buf bytes.Buffer
	name, err := h.dashboardService.Export(c.Request.Context(), &buf, service.ExportInput{
		Format: format,
		Search: q.Search,
		Status: q.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Stats returns the dashboard cards
func (h *AdminReceiptHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", response.NewStatsResponse(stats))
}
