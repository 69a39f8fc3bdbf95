package services

import (
	"errors"
	"log"
	"time"

	"salescrm/internal/models"
	"salescrm/internal/repositories"
)

type CreditNoteService struct {
	Repo      *repositories.CreditNoteRepository
	Invoices  InvoiceStore
	Customers CustomerStore
	Products  ProductStore
	Mailer    Mailer
}

func NewCreditNoteService(repo *repositories.CreditNoteRepository, invoices InvoiceStore, customers CustomerStore, products ProductStore, mailer Mailer) *CreditNoteService {
	return &CreditNoteService{Repo: repo, Invoices: invoices, Customers: customers, Products: products, Mailer: mailer}
}

// Create stores a draft credit note. When it references an invoice, the
// invoice must exist, belong to the same customer and be issued.
func (s *CreditNoteService) Create(cn *models.CreditNote) error {
	if cn.CustomerID == 0 {
		return errors.New("customer_id is required")
	}
	customer, err := s.Customers.GetByID(cn.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return errors.New("customer not found")
	}
	if cn.InvoiceID != 0 {
		inv, err := s.Invoices.GetByID(cn.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return errors.New("invoice not found")
		}
		if inv.CustomerID != cn.CustomerID {
			return errors.New("invoice belongs to another customer")
		}
		if inv.Status == models.InvoiceStatusDraft {
			return errors.New("cannot credit a draft invoice")
		}
		if cn.Currency == "" {
			cn.Currency = inv.Currency
		}
	}
	if len(cn.Items) == 0 {
		return errors.New("at least one line item is required")
	}
	if err := validateLineItems(cn.Items); err != nil {
		return err
	}
	items, currency, err := applyProductDefaults(cn.Items, s.Products, cn.Currency)
	if err != nil {
		return err
	}
	cn.Items = items
	cn.Currency = currency

	totals := RoundTotals(ComputeTotals(cn.Items, cn.TaxEnabled))
	cn.Subtotal = totals.Subtotal
	cn.TotalDiscount = totals.TotalDiscount
	cn.TotalTax = totals.TotalTax
	cn.Total = totals.Total

	if cn.CreditNoteNumber == "" {
		last, err := s.Repo.LastNumber()
		if err != nil {
			return err
		}
		cn.CreditNoteNumber = nextDocumentNumber(last, "CN-")
	}
	cn.Status = models.CreditNoteStatusDraft
	if cn.IssueDate.IsZero() {
		cn.IssueDate = time.Now()
	}
	if cn.CreatedAt.IsZero() {
		cn.CreatedAt = time.Now()
	}
	id, err := s.Repo.Create(cn)
	if err != nil {
		return err
	}
	cn.ID = int(id)
	return nil
}

func (s *CreditNoteService) GetByID(id int) (*models.CreditNote, error) {
	return s.Repo.GetByID(id)
}

func (s *CreditNoteService) List(limit, offset int) ([]*models.CreditNote, error) {
	return s.Repo.List(limit, offset)
}

func (s *CreditNoteService) Delete(id int) error {
	cn, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if cn == nil {
		return errors.New("credit note not found")
	}
	if cn.Status != models.CreditNoteStatusDraft {
		return errors.New("only draft credit notes can be deleted")
	}
	return s.Repo.Delete(id)
}

// Issue finalizes a draft credit note and mails it to the customer.
func (s *CreditNoteService) Issue(id int) (*models.CreditNote, error) {
	cn, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cn == nil {
		return nil, errors.New("credit note not found")
	}
	if cn.Status != models.CreditNoteStatusDraft {
		return nil, errors.New("credit note is already issued")
	}
	if err := s.Repo.UpdateStatus(id, models.CreditNoteStatusIssued); err != nil {
		return nil, err
	}
	cn.Status = models.CreditNoteStatusIssued

	customer, err := s.Customers.GetByID(cn.CustomerID)
	if err == nil && customer != nil && customer.Email != "" && s.Mailer != nil {
		if mailErr := s.Mailer.SendCreditNoteEmail(customer.Email, customer.Name, cn); mailErr != nil {
			log.Printf("credit note %s issued, email to %s failed: %v", cn.CreditNoteNumber, customer.Email, mailErr)
		}
	}
	return cn, nil
}
