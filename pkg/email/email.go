package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// ReceiptLineData is one line item rendered into the receipt email.
type ReceiptLineData struct {
	Name     string
	Quantity int
	Total    string
}

// ReceiptPaymentData is one tender rendered into the receipt email.
type ReceiptPaymentData struct {
	Method string
	Amount string
}

// ReceiptEmailData carries the already formatted receipt values. Amounts
// arrive as display strings so this package stays free of money types.
type ReceiptEmailData struct {
	StoreName string
	Address   string
	Reference string
	Date      string
	Cashier   string
	Lines     []ReceiptLineData
	Subtotal  string
	Discount  string
	Tax       string
	Total     string
	Payments  []ReceiptPaymentData
	Change    string
}

// SendReceiptEmail sends a sale receipt to the customer
func (s *EmailService) SendReceiptEmail(toEmail string, data ReceiptEmailData) error {
	htmlContent, err := s.renderReceiptEmail(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Your Receipt %s - %s", data.Reference, data.StoreName)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

// renderReceiptEmail renders the receipt email template
func (s *EmailService) renderReceiptEmail(data ReceiptEmailData) (string, error) {
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// receiptTemplate is the HTML template for receipt emails
const receiptTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Your Receipt</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 480px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
                    <!-- Header -->
                    <tr>
                        <td style="background: #1a1a2e; padding: 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 24px; font-weight: 600;">{{.StoreName}}</h1>
                            {{if .Address}}<p style="color: #a0aec0; margin: 8px 0 0 0; font-size: 13px;">{{.Address}}</p>{{end}}
                        </td>
                    </tr>

                    <!-- Receipt meta -->
                    <tr>
                        <td style="padding: 24px 30px 0 30px;">
                            <p style="color: #4a5568; font-size: 14px; margin: 0;">Receipt <strong>{{.Reference}}</strong></p>
                            <p style="color: #718096; font-size: 13px; margin: 4px 0 0 0;">{{.Date}} &middot; Served by {{.Cashier}}</p>
                        </td>
                    </tr>

                    <!-- Line items -->
                    <tr>
                        <td style="padding: 20px 30px;">
                            <table role="presentation" style="width: 100%; border-collapse: collapse;">
                                {{range .Lines}}
                                <tr>
                                    <td style="color: #1a1a2e; font-size: 14px; padding: 6px 0;">{{.Quantity}}x {{.Name}}</td>
                                    <td style="color: #1a1a2e; font-size: 14px; padding: 6px 0; text-align: right;">{{.Total}}</td>
                                </tr>
                                {{end}}
                                <tr><td colspan="2" style="border-top: 1px solid #e2e8f0; padding: 0;"></td></tr>
                                <tr>
                                    <td style="color: #718096; font-size: 14px; padding: 6px 0;">Subtotal</td>
                                    <td style="color: #718096; font-size: 14px; padding: 6px 0; text-align: right;">{{.Subtotal}}</td>
                                </tr>
                                <tr>
                                    <td style="color: #718096; font-size: 14px; padding: 6px 0;">Discount</td>
                                    <td style="color: #718096; font-size: 14px; padding: 6px 0; text-align: right;">-{{.Discount}}</td>
                                </tr>
                                <tr>
                                    <td style="color: #718096; font-size: 14px; padding: 6px 0;">Tax</td>
                                    <td style="color: #718096; font-size: 14px; padding: 6px 0; text-align: right;">{{.Tax}}</td>
                                </tr>
                                <tr>
                                    <td style="color: #1a1a2e; font-size: 16px; font-weight: 600; padding: 10px 0;">Total</td>
                                    <td style="color: #1a1a2e; font-size: 16px; font-weight: 600; padding: 10px 0; text-align: right;">{{.Total}}</td>
                                </tr>
                                {{range .Payments}}
                                <tr>
                                    <td style="color: #718096; font-size: 13px; padding: 4px 0;">Paid ({{.Method}})</td>
                                    <td style="color: #718096; font-size: 13px; padding: 4px 0; text-align: right;">{{.Amount}}</td>
                                </tr>
                                {{end}}
                                <tr>
                                    <td style="color: #718096; font-size: 13px; padding: 4px 0;">Change</td>
                                    <td style="color: #718096; font-size: 13px; padding: 4px 0; text-align: right;">{{.Change}}</td>
                                </tr>
                            </table>
                        </td>
                    </tr>

                    <!-- Footer -->
                    <tr>
                        <td style="background-color: #f8fafc; padding: 24px; text-align: center; border-top: 1px solid #e2e8f0;">
                            <p style="color: #a0aec0; font-size: 13px; margin: 0;">Thank you for shopping at {{.StoreName}}</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
