package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"

	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/pos"
)

// GenerateReceiptQR encodes the public receipt-lookup URL as a PNG,
// returned base64-encoded ready for an <img src="..."> tag or the
// thermal printer's bitmap mode.
func GenerateReceiptQR(orderID string) (string, error) {
	base := os.Getenv("RECEIPT_LOOKUP_URL")
	if base == "" {
		base = "http://localhost:8080/api/orders"
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/%s/receipt", base, orderID), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RenderReceiptPDF prints the A4 variant of a receipt by loading the
// fixed-width text into a minimal HTML shell and printing it through
// headless Chrome.
func RenderReceiptPDF(order models.Order) ([]byte, error) {
	text := pos.RenderReceipt(order.Receipt())

	qr, err := GenerateReceiptQR(order.ID.String())
	if err != nil {
		qr = "" // receipt still renders without the QR
	}

	doc := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: monospace; white-space: pre;">%s
<img src="%s" width="128" height="128">
</body>
</html>`, html.EscapeString(text), qr)

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(doc))

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(false).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(string(pdfBuf), "%PDF") {
		return nil, fmt.Errorf("chrome returned an empty or invalid PDF")
	}
	return pdfBuf, nil
}
