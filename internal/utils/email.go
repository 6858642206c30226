package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"

	"vegas_crm_backend/internal/models"
)

// SendEmail sends an HTML email through the configured SMTP relay,
// optionally attaching a PDF (receipts for the back office).
func SendEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@vegascrm.uz"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("receipt.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Sending email to", to)
	return client.DialAndSend(msg)
}

// SendLowStockAlertEmail notifies the owner that a product dropped below
// its threshold (or ran out entirely).
func SendLowStockAlertEmail(ownerEmail string, alert models.StockAlert) error {
	subject := fmt.Sprintf("⚠️ Low stock: %s — Vegas CRM", alert.ProductName)
	if alert.AlertType == "out_of_stock" {
		subject = fmt.Sprintf("❌ Out of stock: %s — Vegas CRM", alert.ProductName)
	}

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>%s</h2>
  <p><strong>Product:</strong> %s</p>
  <p><strong>Current stock:</strong> %d</p>
  <p><strong>Threshold:</strong> %d</p>
  <p>Restock from the inventory dashboard to clear this alert.</p>
</body>
</html>
`, subject, alert.ProductName, alert.CurrentStock, alert.ThresholdStock)

	if err := SendEmail(ownerEmail, subject, html, nil); err != nil {
		log.Printf("❌ Low stock email error: %v", err)
		return err
	}
	log.Printf("📧 Low stock alert sent for %s → %s", alert.ProductName, ownerEmail)
	return nil
}
