package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/models"
)

type fakeInvoiceStore struct {
	invoices map[int]*models.Invoice
	nextID   int
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{invoices: map[int]*models.Invoice{}, nextID: 1}
}

func (f *fakeInvoiceStore) Create(inv *models.Invoice) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *inv
	cp.ID = id
	f.invoices[id] = &cp
	return int64(id), nil
}

func (f *fakeInvoiceStore) Update(inv *models.Invoice) error {
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceStore) GetByID(id int) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceStore) List(limit, offset int) ([]*models.Invoice, error) { return nil, nil }

func (f *fakeInvoiceStore) Delete(id int) error {
	delete(f.invoices, id)
	return nil
}

func (f *fakeInvoiceStore) LastNumber() (string, error) {
	last := ""
	for _, inv := range f.invoices {
		if inv.InvoiceNumber > last {
			last = inv.InvoiceNumber
		}
	}
	return last, nil
}

func (f *fakeInvoiceStore) UpdateStatus(id int, status string) error {
	if inv, ok := f.invoices[id]; ok {
		inv.Status = status
	}
	return nil
}

type fakeCustomerStore struct {
	customers map[int]*models.Customer
}

func (f *fakeCustomerStore) GetByID(id int) (*models.Customer, error) {
	return f.customers[id], nil
}

type fakeProductStore struct {
	products map[int]*models.Product
}

func (f *fakeProductStore) GetByID(id int) (*models.Product, error) {
	return f.products[id], nil
}

type fakeMailer struct {
	sent    []string
	failErr error
}

func (f *fakeMailer) SendInvoiceEmail(email, customerName string, inv *models.Invoice) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeMailer) SendCreditNoteEmail(email, customerName string, cn *models.CreditNote) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, email)
	return nil
}

func invoiceTestService() (*InvoiceService, *fakeInvoiceStore, *fakeMailer) {
	store := newFakeInvoiceStore()
	customers := &fakeCustomerStore{customers: map[int]*models.Customer{
		7: {ID: 7, Name: "Acme GmbH", Email: "billing@acme.example"},
	}}
	products := &fakeProductStore{products: map[int]*models.Product{
		1: {ID: 1, ProductName: "License", UnitPrice: 100, Currency: "EUR", TaxRate: 19, HSNSAC: "9983"},
	}}
	mailer := &fakeMailer{}
	return NewInvoiceService(store, customers, products, mailer), store, mailer
}

func TestInvoiceCreateDerivesTotals(t *testing.T) {
	svc, _, _ := invoiceTestService()

	inv := &models.Invoice{
		CustomerID: 7,
		TaxEnabled: true,
		// Client-supplied totals are ignored.
		Total: 99999,
		Items: []models.LineItem{
			{ItemName: "Consulting", Quantity: 2, UnitPrice: 100, Discount: 10, DiscountType: models.DiscountPercentage, TaxRate: 18},
		},
	}
	require.NoError(t, svc.Create(inv))

	assert.Equal(t, "INV-00001", inv.InvoiceNumber)
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, 200.0, inv.Subtotal)
	assert.Equal(t, 20.0, inv.TotalDiscount)
	assert.Equal(t, 32.4, inv.TotalTax)
	assert.Equal(t, 212.4, inv.Total)
}

func TestInvoiceCreateFillsProductDefaults(t *testing.T) {
	svc, _, _ := invoiceTestService()

	inv := &models.Invoice{
		CustomerID: 7,
		TaxEnabled: true,
		Currency:   "USD",
		Items:      []models.LineItem{{ProductID: 1, Quantity: 3}},
	}
	require.NoError(t, svc.Create(inv))

	item := inv.Items[0]
	assert.Equal(t, "License", item.ItemName)
	assert.Equal(t, 100.0, item.UnitPrice)
	assert.Equal(t, 19.0, item.TaxRate)
	assert.Equal(t, "9983", item.HSNSAC)
	assert.Equal(t, "EUR", inv.Currency, "product currency wins")
}

func TestInvoiceCreateValidation(t *testing.T) {
	svc, _, _ := invoiceTestService()

	assert.Error(t, svc.Create(&models.Invoice{TaxEnabled: true}), "customer required")
	assert.Error(t, svc.Create(&models.Invoice{CustomerID: 99, Items: []models.LineItem{{ItemName: "X", Quantity: 1}}}), "unknown customer")
	assert.Error(t, svc.Create(&models.Invoice{CustomerID: 7}), "items required")
	assert.Error(t, svc.Create(&models.Invoice{CustomerID: 7, Items: []models.LineItem{{ItemName: "X", Quantity: -1}}}))
}

func TestInvoiceNumbersIncrement(t *testing.T) {
	svc, _, _ := invoiceTestService()

	items := []models.LineItem{{ItemName: "X", Quantity: 1, UnitPrice: 10}}
	first := &models.Invoice{CustomerID: 7, Items: items}
	second := &models.Invoice{CustomerID: 7, Items: items}
	require.NoError(t, svc.Create(first))
	require.NoError(t, svc.Create(second))

	assert.Equal(t, "INV-00001", first.InvoiceNumber)
	assert.Equal(t, "INV-00002", second.InvoiceNumber)

	// Deleting a draft must not free its number: invoice_number is unique,
	// so a reissued INV-00002 would collide on insert.
	require.NoError(t, svc.Delete(first.ID))
	third := &models.Invoice{CustomerID: 7, Items: items}
	require.NoError(t, svc.Create(third))
	assert.Equal(t, "INV-00003", third.InvoiceNumber)
}

func TestInvoiceUpdateDraftOnly(t *testing.T) {
	svc, store, _ := invoiceTestService()

	inv := &models.Invoice{CustomerID: 7, Items: []models.LineItem{{ItemName: "X", Quantity: 1, UnitPrice: 10}}}
	require.NoError(t, svc.Create(inv))

	edit := &models.Invoice{CustomerID: 7, Items: []models.LineItem{{ItemName: "X", Quantity: 2, UnitPrice: 10}}}
	require.NoError(t, svc.Update(inv.ID, edit))
	assert.Equal(t, 20.0, edit.Total)
	assert.Equal(t, inv.InvoiceNumber, edit.InvoiceNumber, "number survives edits")

	store.invoices[inv.ID].Status = models.InvoiceStatusIssued
	assert.Error(t, svc.Update(inv.ID, edit))
}

func TestInvoiceIssueSendsEmail(t *testing.T) {
	svc, _, mailer := invoiceTestService()

	inv := &models.Invoice{CustomerID: 7, Items: []models.LineItem{{ItemName: "X", Quantity: 1, UnitPrice: 10}}}
	require.NoError(t, svc.Create(inv))

	issued, err := svc.Issue(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusIssued, issued.Status)
	assert.Equal(t, []string{"billing@acme.example"}, mailer.sent)

	_, err = svc.Issue(inv.ID)
	assert.Error(t, err, "cannot issue twice")
}

func TestInvoiceIssueSurvivesMailFailure(t *testing.T) {
	svc, store, mailer := invoiceTestService()
	mailer.failErr = errors.New("smtp down")

	inv := &models.Invoice{CustomerID: 7, Items: []models.LineItem{{ItemName: "X", Quantity: 1, UnitPrice: 10}}}
	require.NoError(t, svc.Create(inv))

	issued, err := svc.Issue(inv.ID)
	require.NoError(t, err, "issue is not rolled back on mail failure")
	assert.Equal(t, models.InvoiceStatusIssued, issued.Status)
	assert.Equal(t, models.InvoiceStatusIssued, store.invoices[inv.ID].Status)
}

func TestInvoiceLifecycleGuards(t *testing.T) {
	svc, store, _ := invoiceTestService()

	inv := &models.Invoice{CustomerID: 7, Items: []models.LineItem{{ItemName: "X", Quantity: 1, UnitPrice: 10}}}
	require.NoError(t, svc.Create(inv))

	assert.Error(t, svc.MarkPaid(inv.ID), "draft cannot be paid")

	_, err := svc.Issue(inv.ID)
	require.NoError(t, err)
	require.NoError(t, svc.MarkPaid(inv.ID))

	assert.Error(t, svc.Void(inv.ID), "paid invoices cannot be voided")
	assert.Error(t, svc.Delete(inv.ID), "only drafts can be deleted")
	assert.Equal(t, models.InvoiceStatusPaid, store.invoices[inv.ID].Status)
}

func TestInvoiceDeleteDraft(t *testing.T) {
	svc, store, _ := invoiceTestService()

	inv := &models.Invoice{CustomerID: 7, Items: []models.LineItem{{ItemName: "X", Quantity: 1, UnitPrice: 10}}}
	require.NoError(t, svc.Create(inv))
	require.NoError(t, svc.Delete(inv.ID))
	assert.Empty(t, store.invoices)
}
