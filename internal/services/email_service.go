package services

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"salescrm/internal/models"
)

// Mailer delivers billing documents to customers.
type Mailer interface {
	SendInvoiceEmail(email, customerName string, inv *models.Invoice) error
	SendCreditNoteEmail(email, customerName string, cn *models.CreditNote) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) Mailer {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendInvoiceEmail(email, customerName string, inv *models.Invoice) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Invoice %s", inv.InvoiceNumber))

	body := fmt.Sprintf(`
		<h2>Invoice %s</h2>
		<p>Dear %s,</p>
		<p>Please find the details of your invoice below.</p>
		%s
		<p>Amount due: <strong>%.2f %s</strong></p>
		<p>Best regards,<br>Sales team</p>
	`, inv.InvoiceNumber, customerName, itemsTable(inv.Items, inv.TaxEnabled), inv.Total, inv.Currency)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invoice email: %w", err)
	}
	return nil
}

func (s *emailService) SendCreditNoteEmail(email, customerName string, cn *models.CreditNote) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Credit note %s", cn.CreditNoteNumber))

	body := fmt.Sprintf(`
		<h2>Credit note %s</h2>
		<p>Dear %s,</p>
		<p>A credit of <strong>%.2f %s</strong> has been applied to your account.</p>
		%s
	`, cn.CreditNoteNumber, customerName, cn.Total, cn.Currency, itemsTable(cn.Items, cn.TaxEnabled))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send credit note email: %w", err)
	}
	return nil
}

func itemsTable(items []models.LineItem, taxEnabled bool) string {
	var b strings.Builder
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>")
	for _, item := range items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%g</td><td>%.2f</td><td>%.2f</td></tr>",
			item.ItemName, item.Quantity, item.UnitPrice, Round2(LineTotal(item, taxEnabled)))
	}
	b.WriteString("</table>")
	return b.String()
}
