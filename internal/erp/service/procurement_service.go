package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/rules"
	"go.uber.org/zap"
)

// invoiceNumberAttempts bounds retries when two approvals race for the same
// invoice number.
const invoiceNumberAttempts = 3

// ProcurementService 구매 서비스. It owns the request → order → invoice
// workflow.
type ProcurementService struct {
	repos  *repository.Repositories
	prefix string
	notify *notifier
	logger *zap.Logger
	now    func() time.Time
}

func NewProcurementService(repos *repository.Repositories, cfg config.RulesConfig, n *notifier, logger *zap.Logger) *ProcurementService {
	prefix := cfg.InvoicePrefix
	if prefix == "" {
		prefix = rules.DefaultInvoicePrefix
	}
	return &ProcurementService{
		repos:  repos,
		prefix: prefix,
		notify: n,
		logger: logger.Named("procurement"),
		now:    time.Now,
	}
}

// === 구매요청(PR) ===

type RequestQuery struct {
	ListQuery
	UserID string `form:"user_id"`
}

func (s *ProcurementService) ListRequests(ctx context.Context, q RequestQuery) ([]entity.PurchaseRequest, int64, error) {
	return s.repos.Purchase.ListRequests(ctx, repository.RequestListParams{ListParams: q.params(), UserID: q.UserID})
}

func (s *ProcurementService) GetRequest(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return s.repos.Purchase.FindRequest(ctx, id)
}

// CreateRequestRequest 구매요청 등록 요청
type CreateRequestRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" binding:"required,gte=1,lte=99999999.9999"`
	Vendor      string  `json:"vendor" binding:"max=200"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0,lte=99999999.9999"`
}

// CreateRequest files a new pending request.
func (s *ProcurementService) CreateRequest(ctx context.Context, userID string, req *CreateRequestRequest) (*entity.PurchaseRequest, error) {
	pr := &entity.PurchaseRequest{
		ID:          entity.NewID(),
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
		Vendor:      req.Vendor,
		UnitPrice:   req.UnitPrice,
		Status:      entity.PRStatusPending,
		UserID:      userID,
	}
	if err := s.repos.Purchase.CreateRequest(ctx, pr); err != nil {
		return nil, err
	}
	s.notify.created(ctx, entity.CollectionPurchaseRequests, pr.ID)
	return pr, nil
}

// UpdateRequestRequest 구매요청 수정 요청
type UpdateRequestRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity" binding:"omitempty,gte=1,lte=99999999.9999"`
	Vendor      *string  `json:"vendor" binding:"omitempty,max=200"`
	UnitPrice   *float64 `json:"unit_price" binding:"omitempty,gte=0,lte=99999999.9999"`
}

// UpdateRequest edits a request while it is still pending.
func (s *ProcurementService) UpdateRequest(ctx context.Context, id string, req *UpdateRequestRequest) (*entity.PurchaseRequest, error) {
	pr, err := s.repos.Purchase.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if pr.Status != entity.PRStatusPending {
		return nil, transitionError(pr.Status, "edit")
	}
	if req.Title != nil {
		pr.Title = *req.Title
	}
	if req.Description != nil {
		pr.Description = *req.Description
	}
	if req.Quantity != nil {
		pr.Quantity = *req.Quantity
	}
	if req.Vendor != nil {
		pr.Vendor = *req.Vendor
	}
	if req.UnitPrice != nil {
		pr.UnitPrice = *req.UnitPrice
	}
	if err := s.repos.Purchase.SaveRequest(ctx, pr); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionPurchaseRequests, pr.ID)
	return pr, nil
}

// requestTransitions lists the manual moves between review states.
// Completed is reached only by creating an order and is final.
var requestTransitions = map[string][]string{
	entity.PRStatusPending:  {entity.PRStatusApproved, entity.PRStatusRejected},
	entity.PRStatusApproved: {entity.PRStatusPending, entity.PRStatusRejected},
	entity.PRStatusRejected: {entity.PRStatusPending, entity.PRStatusApproved},
}

// UpdateRequestStatus moves a request between pending, approved and rejected.
func (s *ProcurementService) UpdateRequestStatus(ctx context.Context, id, status string) (*entity.PurchaseRequest, error) {
	if err := oneOf("status", status, entity.PRStatuses...); err != nil {
		return nil, err
	}
	var pr *entity.PurchaseRequest
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		pr, err = tx.Purchase.FindRequestForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !slices.Contains(requestTransitions[pr.Status], status) {
			return transitionError(pr.Status, status)
		}
		pr.Status = status
		return tx.Purchase.SaveRequest(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionPurchaseRequests, pr.ID)
	return pr, nil
}

// DeleteRequest removes a request; orders made from it stay.
func (s *ProcurementService) DeleteRequest(ctx context.Context, id string) error {
	if err := s.repos.Purchase.DeleteRequest(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionPurchaseRequests, id)
	return nil
}

// === 발주(PO) ===

func (s *ProcurementService) ListOrders(ctx context.Context, q ListQuery) ([]entity.PurchaseOrder, int64, error) {
	return s.repos.Purchase.ListOrders(ctx, q.params())
}

func (s *ProcurementService) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.repos.Purchase.FindOrder(ctx, id)
}

// CreateOrderRequest 발주 등록 요청
type CreateOrderRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Status    string `json:"status" binding:"omitempty,oneof=pending in_progress approved"`
}

// CreateOrder turns an approved request into an order and completes the
// request. An order created as approved gets its invoice in the same
// transaction.
func (s *ProcurementService) CreateOrder(ctx context.Context, userID string, req *CreateOrderRequest) (*entity.PurchaseOrder, error) {
	status := req.Status
	if status == "" {
		status = entity.POStatusPending
	}

	var po *entity.PurchaseOrder
	err := s.withInvoiceRetry(ctx, status == entity.POStatusApproved, func(tx *repository.Repositories) error {
		pr, err := tx.Purchase.FindRequestForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if pr.Status != entity.PRStatusApproved {
			return transitionError(pr.Status, "order")
		}

		po = &entity.PurchaseOrder{
			ID:          entity.NewID(),
			RequestID:   pr.ID,
			Title:       pr.Title,
			Description: pr.Description,
			Quantity:    pr.Quantity,
			Vendor:      pr.Vendor,
			UnitPrice:   pr.UnitPrice,
			TotalAmount: rules.TotalAmount(pr.Quantity, pr.UnitPrice),
			Status:      status,
			CreatedBy:   userID,
		}
		if err := tx.Purchase.CreateOrder(ctx, po); err != nil {
			return err
		}

		pr.Status = entity.PRStatusCompleted
		if err := tx.Purchase.SaveRequest(ctx, pr); err != nil {
			return err
		}

		if status == entity.POStatusApproved {
			po.Invoice, err = s.issueInvoice(ctx, tx, po)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.created(ctx, entity.CollectionPurchaseOrders, po.ID)
	s.notify.updated(ctx, entity.CollectionPurchaseRequests, po.RequestID)
	if po.Invoice != nil {
		s.notify.created(ctx, entity.CollectionInvoices, po.Invoice.ID)
	}
	return po, nil
}

// UpdateOrderStatus moves an order between pending, in_progress and
// approved. Approval is final and issues exactly one invoice; approving
// again returns the existing one.
func (s *ProcurementService) UpdateOrderStatus(ctx context.Context, id, status string) (*entity.PurchaseOrder, error) {
	if err := oneOf("status", status, entity.POStatusPending, entity.POStatusInProgress, entity.POStatusApproved); err != nil {
		return nil, err
	}

	var (
		po     *entity.PurchaseOrder
		issued bool
	)
	err := s.withInvoiceRetry(ctx, status == entity.POStatusApproved, func(tx *repository.Repositories) error {
		var err error
		issued = false
		po, err = tx.Purchase.FindOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if po.Status == entity.POStatusApproved {
			if status != entity.POStatusApproved {
				return transitionError(po.Status, status)
			}
			po.Invoice, err = tx.Purchase.FindInvoiceByOrder(ctx, po.ID)
			if errors.Is(err, repository.ErrNotFound) {
				// approved before invoices were tracked
				po.Invoice, err = s.issueInvoice(ctx, tx, po)
				issued = err == nil
			}
			return err
		}

		if err := tx.Purchase.UpdateOrderStatus(ctx, po.ID, status); err != nil {
			return err
		}
		po.Status = status
		if status == entity.POStatusApproved {
			po.Invoice, err = s.issueInvoice(ctx, tx, po)
			issued = err == nil
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.updated(ctx, entity.CollectionPurchaseOrders, po.ID)
	if issued {
		s.notify.created(ctx, entity.CollectionInvoices, po.Invoice.ID)
	}
	return po, nil
}

// DeleteOrder removes an order; its invoice stays.
func (s *ProcurementService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repos.Purchase.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionPurchaseOrders, id)
	return nil
}

// === 거래명세서 ===

func (s *ProcurementService) ListInvoices(ctx context.Context, q ListQuery) ([]entity.Invoice, int64, error) {
	return s.repos.Purchase.ListInvoices(ctx, q.params())
}

func (s *ProcurementService) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	return s.repos.Purchase.FindInvoice(ctx, id)
}

// issueInvoice numbers and stores the invoice of an approved order. It must
// run inside the transaction that approves the order.
func (s *ProcurementService) issueInvoice(ctx context.Context, tx *repository.Repositories, po *entity.PurchaseOrder) (*entity.Invoice, error) {
	last, err := tx.Purchase.LastInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	inv := &entity.Invoice{
		ID:            entity.NewID(),
		OrderID:       po.ID,
		InvoiceNumber: rules.NextInvoiceNumber(s.prefix, last, now),
		Title:         po.Title,
		Description:   po.Description,
		Quantity:      po.Quantity,
		Vendor:        po.Vendor,
		UnitPrice:     po.UnitPrice,
		TotalAmount:   po.TotalAmount,
		IssueDate:     now,
	}
	if err := tx.Purchase.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// withInvoiceRetry runs fn in a transaction. When the transaction may issue
// an invoice, a duplicate key failure is retried with a fresh number.
func (s *ProcurementService) withInvoiceRetry(ctx context.Context, issuing bool, fn func(tx *repository.Repositories) error) error {
	attempts := 1
	if issuing {
		attempts = invoiceNumberAttempts
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = s.repos.Transaction(ctx, fn)
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return err
		}
		s.logger.Warn("invoice number collision, retrying", zap.Int("attempt", i+1), zap.Error(err))
	}
	return err
}
