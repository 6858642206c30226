package order

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/pos"
	"vegas_crm_backend/internal/utils"
)

// loadFinalizedOrder fetches an order and rejects receipt requests for
// drafts: a receipt is printed from settled figures, never advisory
// ones.
func loadFinalizedOrder(c *gin.Context) *models.Order {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return nil
	}

	order, err := fetchOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil
	}

	if order.Status == models.StatusDraft || order.Status == models.StatusCancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "No receipt for a " + order.Status + " order"})
		return nil
	}
	return order
}

//
// 🖨️ GET /api/orders/:id/receipt
//
// The 42-column text the thermal printer takes verbatim.
//
func GetReceipt(c *gin.Context) {
	order := loadFinalizedOrder(c)
	if order == nil {
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(pos.RenderReceipt(order.Receipt())))
}

//
// 📄 GET /api/orders/:id/receipt/pdf
//
func GetReceiptPDF(c *gin.Context) {
	order := loadFinalizedOrder(c)
	if order == nil {
		return
	}

	pdf, err := utils.RenderReceiptPDF(*order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PDF render error: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt-`+order.Number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

//
// 🔳 GET /api/orders/:id/receipt/qr
//
func GetReceiptQR(c *gin.Context) {
	order := loadFinalizedOrder(c)
	if order == nil {
		return
	}

	qr, err := utils.GenerateReceiptQR(order.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "QR generation error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": order.ID.String(), "qr": qr})
}

//
// 📧 POST /api/orders/:id/receipt/email
//
// Emails the PDF receipt to the customer, for the shops that ask.
//
func EmailReceipt(c *gin.Context) {
	order := loadFinalizedOrder(c)
	if order == nil {
		return
	}

	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	pdf, err := utils.RenderReceiptPDF(*order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PDF render error"})
		return
	}

	subject := "Your receipt #" + order.Number + " — Vegas CRM"
	body := "<p>Thank you for your purchase. Your receipt is attached.</p>"
	if err := utils.SendEmail(input.Email, subject, body, pdf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email send error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Receipt sent to " + input.Email})
}
