package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receiptflow/internal/application/service"
	"github.com/sangkips/receiptflow/internal/presentation/http/dto/request"
	"github.com/sangkips/receiptflow/internal/presentation/http/dto/response"
	"github.com/sangkips/receiptflow/pkg/apperror"
)

// ReceiptHandler serves the storefront contract: the payment webhook and the
// public receipt reads. Errors use {"detail": ...} bodies.
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// PaymentSuccess issues a receipt for a paid order
func (h *ReceiptHandler) PaymentSuccess(c *gin.Context) {
	var req request.PaymentSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, apperror.NewBadRequestError("Invalid request body"))
		return
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), req.ToForm())
	if err != nil {
		response.Detail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.NewCreatedReceiptResponse(receipt))
}

// ListReceipts returns every receipt
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	receipts, err := h.receiptService.ListReceipts(c.Request.Context())
	if err != nil {
		response.Detail(c, err)
		return
	}
	c.JSON(http.StatusOK, receipts)
}

// GetReceipt returns one receipt
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	id, ok := parseReceiptID(c)
	if !ok {
		response.Detail(c, apperror.NewNotFoundError("Receipt"))
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Detail(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
