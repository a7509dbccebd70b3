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

// SendFunc has the signature of smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   SendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// WithSendFunc replaces the SMTP transport
func (s *EmailService) WithSendFunc(send SendFunc) *EmailService {
	s.send = send
	return s
}

// ReceiptEmail is the data printed in a receipt notification
type ReceiptEmail struct {
	To            string
	CustomerName  string
	OrderID       string
	ReceiptNumber string
	BusinessStore string
	Total         string
	PDFURL        string
}

// SendReceiptEmail tells the customer where to download their receipt
func (s *EmailService) SendReceiptEmail(data ReceiptEmail) error {
	htmlContent, err := render(receiptTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Your receipt for order %s", data.OrderID)
	return s.sendEmail(data.To, s.buildHTMLEmail(data.To, subject, htmlContent))
}

// SendTestEmail checks the SMTP settings by mailing a short notice to "to"
func (s *EmailService) SendTestEmail(to, businessName string) error {
	htmlContent, err := render(testTemplate, struct{ BusinessName string }{businessName})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Test email from %s", businessName)
	return s.sendEmail(to, s.buildHTMLEmail(to, subject, htmlContent))
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	// Gmail requires TLS authentication
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
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

var (
	receiptTemplate = template.Must(template.New("receipt").Parse(receiptHTML))
	testTemplate    = template.Must(template.New("test").Parse(testHTML))
)

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const receiptHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Your receipt</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 30px;">
                <p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Hi {{.CustomerName}},</p>
                <p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Thanks for your purchase with {{.BusinessStore}}.</p>
                <p style="color: #4a5568; font-size: 16px; line-height: 1.6;">
                    Order <strong>{{.OrderID}}</strong>, receipt {{.ReceiptNumber}}, total <strong>{{.Total}}</strong>.
                </p>
                <p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Download your receipt here:</p>
                <p style="font-size: 14px; word-break: break-all;"><a href="{{.PDFURL}}" style="color: #667eea;">{{.PDFURL}}</a></p>
                <p style="color: #718096; font-size: 14px; line-height: 1.6;">Regards,<br>ReceiptFlow</p>
            </td>
        </tr>
    </table>
</body>
</html>
`

const testHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Test email</title>
</head>
<body style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;">
    <p>This is a test email from {{.BusinessName}}.</p>
    <p>If you received it, receipt emails are configured correctly.</p>
</body>
</html>
`
