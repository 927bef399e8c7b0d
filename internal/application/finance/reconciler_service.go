// Package finance provides the financial reconciler: the only writer of
// financial transactions, partner balances and order payment status.
package finance

import (
	"context"

	"github.com/erp/erpcore/internal/application/uow"
	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/erp/erpcore/internal/domain/order"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Metrics receives counters for committed financial activity
type Metrics interface {
	RecordTransaction(ctx context.Context, txType string, amount decimal.Decimal)
}

type noopMetrics struct{}

func (noopMetrics) RecordTransaction(context.Context, string, decimal.Decimal) {}

// ReconcilerService records money movements and keeps balances and payment status in step
type ReconcilerService struct {
	scope   uow.TransactionScope
	logger  *zap.Logger
	metrics Metrics
}

// NewReconcilerService creates a new ReconcilerService
func NewReconcilerService(scope uow.TransactionScope, logger *zap.Logger) *ReconcilerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcilerService{scope: scope, logger: logger, metrics: noopMetrics{}}
}

// SetMetrics sets the metrics sink
func (s *ReconcilerService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Bind returns a reconciler operating inside repos' transaction
func (s *ReconcilerService) Bind(repos uow.Repositories) *BoundReconciler {
	return &BoundReconciler{repos: repos}
}

// BoundReconciler records transactions through the repositories of an open unit of work
type BoundReconciler struct {
	repos uow.Repositories
}

// Posting is the outcome of recording one transaction
type Posting struct {
	Transaction *finance.Transaction
	Partner     *finance.Partner
	Order       *order.Order
}

// Record appends a transaction and applies it to the partner balance and order payment status.
// The order is locked before the partner. A transaction on an order with a partner
// settles against that partner; naming a different one is rejected. A missing
// order or partner aborts with NotFound before anything is written.
func (b *BoundReconciler) Record(ctx context.Context, req RecordTransactionRequest) (*Posting, error) {
	tx, err := finance.NewTransaction(
		finance.TransactionType(req.Type),
		req.Amount,
		req.PartnerID,
		req.OrderID,
		req.PaymentMethod,
		req.Description,
	)
	if err != nil {
		return nil, err
	}

	posting := &Posting{Transaction: tx}
	if tx.OrderID != nil {
		if posting.Order, err = b.repos.Orders().LockByID(ctx, *tx.OrderID); err != nil {
			return nil, err
		}
		if tx.PartnerID, err = settlingPartner(posting.Order, tx.PartnerID); err != nil {
			return nil, err
		}
	}
	if tx.PartnerID != nil {
		if posting.Partner, err = b.repos.Partners().LockByID(ctx, *tx.PartnerID); err != nil {
			return nil, err
		}
	}

	if err := b.repos.Transactions().Append(ctx, tx); err != nil {
		return nil, err
	}

	if posting.Partner != nil {
		posting.Partner.Apply(tx)
		if err := b.repos.Partners().UpdateBalance(ctx, posting.Partner); err != nil {
			return nil, err
		}
	}

	if posting.Order != nil {
		paid, err := b.repos.Transactions().SumByOrder(ctx, posting.Order.ID)
		if err != nil {
			return nil, err
		}
		posting.Order.ApplyPayment(paid)
		if err := b.repos.Orders().UpdatePaymentStatus(ctx, posting.Order); err != nil {
			return nil, err
		}
	}
	return posting, nil
}

// settlingPartner returns the partner a payment on o is booked against
func settlingPartner(o *order.Order, requested *uuid.UUID) (*uuid.UUID, error) {
	switch {
	case o.PartnerID == nil:
		return requested, nil
	case requested == nil:
		id := *o.PartnerID
		return &id, nil
	case *requested != *o.PartnerID:
		return nil, shared.NewValidationError("partner does not match the order's partner").
			WithDetail("order_id", o.ID.String()).
			WithDetail("partner_id", requested.String())
	}
	return requested, nil
}

// RecordTransaction records one income or expense in its own unit of work
func (s *ReconcilerService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*TransactionResponse, error) {
	var posting *Posting
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		posting, err = s.Bind(repos).Record(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Committed(ctx, posting)
	return ToTransactionResponse(posting), nil
}

// RecordExpense records an expense whose description is prefixed with its category
func (s *ReconcilerService) RecordExpense(ctx context.Context, req RecordExpenseRequest) (*TransactionResponse, error) {
	return s.RecordTransaction(ctx, RecordTransactionRequest{
		Type:          string(finance.TransactionExpense),
		Amount:        req.Amount,
		PartnerID:     req.PartnerID,
		PaymentMethod: req.PaymentMethod,
		Description:   finance.ExpenseDescription(req.Category, req.Description),
	})
}

// Committed reports a posting whose unit of work has committed
func (s *ReconcilerService) Committed(ctx context.Context, posting *Posting) {
	tx := posting.Transaction
	s.metrics.RecordTransaction(ctx, tx.Type.String(), tx.Amount)

	fields := []zap.Field{
		zap.String("transaction_id", tx.ID.String()),
		zap.String("type", tx.Type.String()),
		zap.String("amount", tx.Amount.String()),
	}
	if posting.Partner != nil {
		fields = append(fields, zap.String("partner_id", posting.Partner.ID.String()),
			zap.String("balance", posting.Partner.Balance.String()))
	}
	if posting.Order != nil {
		fields = append(fields, zap.String("order_id", posting.Order.ID.String()),
			zap.String("payment_status", string(posting.Order.PaymentStatus)))
	}
	s.logger.Info("Financial transaction recorded", fields...)
}

// ListTransactions lists transactions
func (s *ReconcilerService) ListTransactions(ctx context.Context, filter finance.TransactionFilter) (shared.Paginated[TransactionResponse], error) {
	var page shared.Paginated[finance.Transaction]
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		page, err = repos.Transactions().List(ctx, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	return shared.MapPaginated(page, func(tx finance.Transaction) TransactionResponse {
		return *ToTransactionResponse(&Posting{Transaction: &tx})
	}), nil
}

// CreateInvoice issues an invoice numbered from the tenant's invoice sequence
func (s *ReconcilerService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := finance.NewInvoice(req.OrderID, req.Type, req.Amount, req.Tax, req.FileURL)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		if invoice.OrderID != nil {
			if _, err := repos.Orders().FindByID(ctx, *invoice.OrderID); err != nil {
				return err
			}
		}
		seq, err := repos.Sequences().Next(ctx, finance.InvoiceSequence)
		if err != nil {
			return err
		}
		invoice.InvoiceNo = finance.InvoiceNo(seq)
		return repos.Invoices().Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice issued",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_no", invoice.InvoiceNo),
	)
	return ToInvoiceResponse(invoice), nil
}

// GetInvoice returns one invoice
func (s *ReconcilerService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	var invoice *finance.Invoice
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		invoice, err = repos.Invoices().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(invoice), nil
}

// ListInvoices lists invoices
func (s *ReconcilerService) ListInvoices(ctx context.Context, filter finance.InvoiceFilter) (shared.Paginated[InvoiceResponse], error) {
	var page shared.Paginated[finance.Invoice]
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		page, err = repos.Invoices().List(ctx, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}
	return shared.MapPaginated(page, func(inv finance.Invoice) InvoiceResponse {
		return *ToInvoiceResponse(&inv)
	}), nil
}
