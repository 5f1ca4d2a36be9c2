package service

import (
	"context"
	"testing"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 10, 19, 14, 30, 0, 0, time.UTC)

func approvedOrder(t *testing.T, ts *testServices, qty, price float64) *entity.PurchaseOrder {
	t.Helper()
	pr := testutil.SeedPurchaseRequest(t, ts.db, entity.PRStatusApproved, qty, price)
	po, err := ts.Procurement.CreateOrder(context.Background(), "u1", &CreateOrderRequest{RequestID: pr.ID})
	require.NoError(t, err)
	return po
}

func TestRequestLifecycle(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	pr, err := ts.Procurement.CreateRequest(ctx, "u1", &CreateRequestRequest{
		Title: "절삭유", Quantity: 3, Vendor: "한빛상사", UnitPrice: 12000,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PRStatusPending, pr.Status)
	assert.Equal(t, "u1", pr.UserID)

	// completed is reached only through an order
	_, err = ts.Procurement.UpdateRequestStatus(ctx, pr.ID, entity.PRStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = ts.Procurement.UpdateRequestStatus(ctx, pr.ID, "archived")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = ts.Procurement.UpdateRequestStatus(ctx, pr.ID, entity.PRStatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := ts.Procurement.UpdateRequestStatus(ctx, pr.ID, entity.PRStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.PRStatusApproved, got.Status)
	_, err = ts.Procurement.UpdateRequest(ctx, pr.ID, &UpdateRequestRequest{Quantity: ptr(5.0)})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRequestReviewStatesAreReversible(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	pr := testutil.SeedPurchaseRequest(t, ts.db, entity.PRStatusPending, 1, 100)

	for _, step := range []string{
		entity.PRStatusApproved,
		entity.PRStatusRejected,
		entity.PRStatusApproved,
		entity.PRStatusPending,
		entity.PRStatusRejected,
		entity.PRStatusPending,
	} {
		got, err := ts.Procurement.UpdateRequestStatus(ctx, pr.ID, step)
		require.NoError(t, err, step)
		assert.Equal(t, step, got.Status)
	}

	done := testutil.SeedPurchaseRequest(t, ts.db, entity.PRStatusCompleted, 1, 100)
	for _, step := range []string{entity.PRStatusPending, entity.PRStatusApproved, entity.PRStatusRejected} {
		_, err := ts.Procurement.UpdateRequestStatus(ctx, done.ID, step)
		assert.ErrorIs(t, err, ErrInvalidTransition, step)
	}
}

func TestCreateOrderRequiresApprovedRequest(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	for _, status := range []string{entity.PRStatusPending, entity.PRStatusRejected, entity.PRStatusCompleted} {
		pr := testutil.SeedPurchaseRequest(t, ts.db, status, 2, 100)
		_, err := ts.Procurement.CreateOrder(ctx, "u1", &CreateOrderRequest{RequestID: pr.ID})
		assert.ErrorIs(t, err, ErrInvalidTransition, status)
	}

	_, err := ts.Procurement.CreateOrder(ctx, "u1", &CreateOrderRequest{RequestID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var count int64
	ts.db.Model(&entity.PurchaseOrder{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateOrderCopiesRequestAndCompletesIt(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	pr := testutil.SeedPurchaseRequest(t, ts.db, entity.PRStatusApproved, 3, 0.1)

	po, err := ts.Procurement.CreateOrder(ctx, "u1", &CreateOrderRequest{RequestID: pr.ID})
	require.NoError(t, err)
	assert.Equal(t, pr.Title, po.Title)
	assert.Equal(t, pr.Vendor, po.Vendor)
	assert.Equal(t, 3.0, po.Quantity)
	assert.Equal(t, 0.3, po.TotalAmount)
	assert.Equal(t, entity.POStatusPending, po.Status)
	assert.Nil(t, po.Invoice)

	stored, err := ts.repos.Purchase.FindRequest(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PRStatusCompleted, stored.Status)

	// a completed request cannot be ordered twice
	_, err = ts.Procurement.CreateOrder(ctx, "u1", &CreateOrderRequest{RequestID: pr.ID})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveOrderIssuesInvoice(t *testing.T) {
	ts := newTestServices(t)
	ts.Procurement.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	po := approvedOrder(t, ts, 4, 2500)

	got, err := ts.Procurement.UpdateOrderStatus(ctx, po.ID, entity.POStatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, got.Invoice)

	got, err = ts.Procurement.UpdateOrderStatus(ctx, po.ID, entity.POStatusApproved)
	require.NoError(t, err)
	require.NotNil(t, got.Invoice)
	inv := got.Invoice
	assert.Equal(t, "DMC-20251019-001", inv.InvoiceNumber)
	assert.Equal(t, po.ID, inv.OrderID)
	assert.Equal(t, 4.0, inv.Quantity)
	assert.Equal(t, 2500.0, inv.UnitPrice)
	assert.Equal(t, 10000.0, inv.TotalAmount)
	assert.True(t, inv.IssueDate.Equal(fixedNow))

	// approving again returns the same invoice
	again, err := ts.Procurement.UpdateOrderStatus(ctx, po.ID, entity.POStatusApproved)
	require.NoError(t, err)
	require.NotNil(t, again.Invoice)
	assert.Equal(t, inv.ID, again.Invoice.ID)

	var count int64
	ts.db.Model(&entity.Invoice{}).Where("order_id = ?", po.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	// approval is final
	_, err = ts.Procurement.UpdateOrderStatus(ctx, po.ID, entity.POStatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := ts.repos.Purchase.FindOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusApproved, stored.Status)
	assert.Equal(t, 4.0, stored.Quantity)
	assert.Equal(t, 2500.0, stored.UnitPrice)
}

func TestInvoiceNumbersAreSequential(t *testing.T) {
	ts := newTestServices(t)
	ts.Procurement.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
		po := approvedOrder(t, ts, 1, 10)
		got, err := ts.Procurement.UpdateOrderStatus(ctx, po.ID, entity.POStatusApproved)
		require.NoError(t, err)
		numbers = append(numbers, got.Invoice.InvoiceNumber)
	}
	assert.Equal(t, []string{"DMC-20251019-001", "DMC-20251019-002", "DMC-20251019-003"}, numbers)
}

func TestInvoiceSequenceContinuesAcrossDays(t *testing.T) {
	ts := newTestServices(t)
	ts.Procurement.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	require.NoError(t, ts.db.Create(&entity.Invoice{
		ID:            entity.NewID(),
		OrderID:       "old-order",
		InvoiceNumber: "DMC-20240101-041",
		Quantity:      1,
		IssueDate:     fixedNow.AddDate(-1, 0, 0),
	}).Error)

	po := approvedOrder(t, ts, 1, 10)
	got, err := ts.Procurement.UpdateOrderStatus(ctx, po.ID, entity.POStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, "DMC-20251019-042", got.Invoice.InvoiceNumber)
}

func TestCreateOrderApprovedImmediately(t *testing.T) {
	ts := newTestServices(t)
	ts.Procurement.now = func() time.Time { return fixedNow }
	ctx := context.Background()
	pr := testutil.SeedPurchaseRequest(t, ts.db, entity.PRStatusApproved, 2, 500)

	po, err := ts.Procurement.CreateOrder(ctx, "u1", &CreateOrderRequest{RequestID: pr.ID, Status: entity.POStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusApproved, po.Status)
	require.NotNil(t, po.Invoice)
	assert.Equal(t, 1000.0, po.Invoice.TotalAmount)

	invoices, total, err := ts.Procurement.ListInvoices(ctx, ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, po.Invoice.InvoiceNumber, invoices[0].InvoiceNumber)

	assert.Contains(t, ts.pub.collections(), entity.CollectionInvoices)
}

func TestInvoiceNumberCollisionRetries(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	// the newest invoice carries the lower number, so every computed number
	// collides with the older one
	calls := 0
	ts.Procurement.now = func() time.Time {
		calls++
		return fixedNow
	}
	require.NoError(t, ts.db.Create(&entity.Invoice{
		ID:            entity.NewID(),
		OrderID:       "o-1",
		InvoiceNumber: "DMC-20251019-002",
		Quantity:      1,
		CreatedAt:     fixedNow.Add(-2 * time.Hour),
	}).Error)
	require.NoError(t, ts.db.Create(&entity.Invoice{
		ID:            entity.NewID(),
		OrderID:       "o-2",
		InvoiceNumber: "DMC-20251019-001",
		Quantity:      1,
		CreatedAt:     fixedNow.Add(-1 * time.Hour),
	}).Error)

	po := approvedOrder(t, ts, 1, 10)
	_, err := ts.Procurement.UpdateOrderStatus(ctx, po.ID, entity.POStatusApproved)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	assert.Equal(t, invoiceNumberAttempts, calls)

	stored, err := ts.repos.Purchase.FindOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPending, stored.Status)
	assert.Nil(t, stored.Invoice)
}
