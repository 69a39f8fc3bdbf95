package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"salescrm/internal/models"
)

// InvoiceStore is the subset of the invoice repository the service needs.
type InvoiceStore interface {
	Create(inv *models.Invoice) (int64, error)
	Update(inv *models.Invoice) error
	GetByID(id int) (*models.Invoice, error)
	List(limit, offset int) ([]*models.Invoice, error)
	Delete(id int) error
	LastNumber() (string, error)
	UpdateStatus(id int, status string) error
}

// nextDocumentNumber continues a "PREFIX-00042" style sequence from the
// highest number already assigned. Numbers of deleted documents are never
// reused; the number columns are unique.
func nextDocumentNumber(last, prefix string) string {
	n := 0
	if strings.HasPrefix(last, prefix) {
		if v, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			n = v
		}
	}
	return fmt.Sprintf("%s%05d", prefix, n+1)
}

// CustomerStore resolves customers referenced by billing documents.
type CustomerStore interface {
	GetByID(id int) (*models.Customer, error)
}

type InvoiceService struct {
	Repo      InvoiceStore
	Customers CustomerStore
	Products  ProductStore
	Mailer    Mailer
}

func NewInvoiceService(repo InvoiceStore, customers CustomerStore, products ProductStore, mailer Mailer) *InvoiceService {
	return &InvoiceService{Repo: repo, Customers: customers, Products: products, Mailer: mailer}
}

// Create stores a draft invoice. Totals are always derived from the line
// items and persisted rounded to 2 decimals; the request cannot set them.
func (s *InvoiceService) Create(inv *models.Invoice) error {
	if err := s.prepare(inv); err != nil {
		return err
	}
	if inv.InvoiceNumber == "" {
		last, err := s.Repo.LastNumber()
		if err != nil {
			return err
		}
		inv.InvoiceNumber = nextDocumentNumber(last, "INV-")
	}
	inv.Status = models.InvoiceStatusDraft
	if inv.IssueDate.IsZero() {
		inv.IssueDate = time.Now()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	id, err := s.Repo.Create(inv)
	if err != nil {
		return err
	}
	inv.ID = int(id)
	return nil
}

// Update replaces a draft invoice's fields and line items. Issued
// invoices are immutable; corrections go through a credit note.
func (s *InvoiceService) Update(id int, inv *models.Invoice) error {
	current, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if current == nil {
		return errors.New("invoice not found")
	}
	if current.Status != models.InvoiceStatusDraft {
		return errors.New("only draft invoices can be edited")
	}
	if err := s.prepare(inv); err != nil {
		return err
	}
	inv.ID = id
	inv.InvoiceNumber = current.InvoiceNumber
	inv.Status = current.Status
	inv.CreatedAt = current.CreatedAt
	return s.Repo.Update(inv)
}

func (s *InvoiceService) GetByID(id int) (*models.Invoice, error) {
	return s.Repo.GetByID(id)
}

func (s *InvoiceService) List(limit, offset int) ([]*models.Invoice, error) {
	return s.Repo.List(limit, offset)
}

func (s *InvoiceService) Delete(id int) error {
	inv, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return errors.New("invoice not found")
	}
	if inv.Status != models.InvoiceStatusDraft {
		return errors.New("only draft invoices can be deleted")
	}
	return s.Repo.Delete(id)
}

// Issue finalizes a draft invoice and mails it to the customer. A mail
// failure does not undo the issue; it is logged and the caller sees the
// issued invoice.
func (s *InvoiceService) Issue(id int) (*models.Invoice, error) {
	inv, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, errors.New("invoice not found")
	}
	if inv.Status != models.InvoiceStatusDraft {
		return nil, errors.New("invoice is already issued")
	}
	if err := s.Repo.UpdateStatus(id, models.InvoiceStatusIssued); err != nil {
		return nil, err
	}
	inv.Status = models.InvoiceStatusIssued

	customer, err := s.Customers.GetByID(inv.CustomerID)
	if err == nil && customer != nil && customer.Email != "" && s.Mailer != nil {
		if mailErr := s.Mailer.SendInvoiceEmail(customer.Email, customer.Name, inv); mailErr != nil {
			log.Printf("invoice %s issued, email to %s failed: %v", inv.InvoiceNumber, customer.Email, mailErr)
		}
	}
	return inv, nil
}

func (s *InvoiceService) MarkPaid(id int) error {
	inv, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return errors.New("invoice not found")
	}
	if inv.Status != models.InvoiceStatusIssued {
		return errors.New("only issued invoices can be marked paid")
	}
	return s.Repo.UpdateStatus(id, models.InvoiceStatusPaid)
}

func (s *InvoiceService) Void(id int) error {
	inv, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return errors.New("invoice not found")
	}
	if inv.Status == models.InvoiceStatusPaid {
		return errors.New("paid invoices cannot be voided")
	}
	return s.Repo.UpdateStatus(id, models.InvoiceStatusVoid)
}

func (s *InvoiceService) prepare(inv *models.Invoice) error {
	if inv.CustomerID == 0 {
		return errors.New("customer_id is required")
	}
	customer, err := s.Customers.GetByID(inv.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return errors.New("customer not found")
	}
	if len(inv.Items) == 0 {
		return errors.New("at least one line item is required")
	}
	for i := range inv.Items {
		if strings.TrimSpace(inv.Items[i].ItemName) == "" && inv.Items[i].ProductID == 0 {
			return fmt.Errorf("line item %d: item_name is required", i+1)
		}
	}
	if err := validateLineItems(inv.Items); err != nil {
		return err
	}
	items, currency, err := applyProductDefaults(inv.Items, s.Products, inv.Currency)
	if err != nil {
		return err
	}
	inv.Items = items
	inv.Currency = currency

	totals := RoundTotals(ComputeTotals(inv.Items, inv.TaxEnabled))
	inv.Subtotal = totals.Subtotal
	inv.TotalDiscount = totals.TotalDiscount
	inv.TotalTax = totals.TotalTax
	inv.Total = totals.Total
	return nil
}
