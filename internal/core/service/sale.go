package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

// SaleService coordinates sale records against the stock ledger. Its one
// correctness property: sale records and item quantities never diverge. A
// sale is created all-or-nothing across its lines; every reservation applied
// before a failing line is released again before Create returns.
type SaleService struct {
	sales  port.SaleRepository
	ledger *LedgerService
	cache  port.CacheRepository
	log    *logrus.Logger
}

func NewSaleService(sales port.SaleRepository, ledger *LedgerService, cache port.CacheRepository, log *logrus.Logger) *SaleService {
	return &SaleService{
		sales:  sales,
		ledger: ledger,
		cache:  cache,
		log:    log,
	}
}

type CreateSaleInput struct {
	RequestID     string
	Customer      string
	Items         []domain.SaleItem
	PaymentMethod domain.PaymentMethod
	Status        domain.SaleStatus
	Notes         string
}

// Create validates the sale, reserves stock for every line in input order,
// and persists the record with a total recomputed from the lines. On any
// reservation failure the reservations already applied are released in
// reverse order before the error is returned, so the ledger is consistent by
// the time the call finishes, success or not.
func (s *SaleService) Create(ctx context.Context, in CreateSaleInput, userID string) (*domain.Sale, error) {
	if err := validateCreateSale(in, userID); err != nil {
		return nil, err
	}

	if in.RequestID != "" && s.cache != nil {
		key := fmt.Sprintf("sale:%s:%s", userID, in.RequestID)
		ok, err := s.cache.SetIdempotency(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, domain.ErrDuplicateRequest
		}
	}

	// Reserve line by line, recording each applied reservation so it can be
	// compensated if a later line fails.
	applied := make([]domain.Reservation, 0, len(in.Items))
	for _, line := range in.Items {
		if _, err := s.ledger.Reserve(ctx, line.ItemID, line.Quantity); err != nil {
			s.rollback(ctx, applied)
			return nil, err
		}
		applied = append(applied, domain.Reservation{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	status := in.Status
	if status == "" {
		status = domain.SaleStatusPending
	}

	now := time.Now()
	sale := &domain.Sale{
		ID:            uuid.NewString(),
		Customer:      in.Customer,
		Items:         in.Items,
		Total:         domain.ComputeTotal(in.Items),
		PaymentMethod: in.PaymentMethod,
		Status:        status,
		Notes:         in.Notes,
		UserID:        userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		// Reservations hit the ledger but the sale record did not land. This
		// is the one inconsistency this core cannot repair on its own; log
		// every line so the quantities can be reconciled.
		mismatch := &domain.ReservationMismatchError{Reservations: applied, Err: err}
		s.log.WithFields(logrus.Fields{
			"saleId":       sale.ID,
			"userId":       userID,
			"reservations": applied,
		}).WithError(err).Error("sale persistence failed after reservations were applied")
		return nil, mismatch
	}

	return sale, nil
}

// Delete releases the stock reserved by every line of the sale and then
// removes the record. Lines whose item was independently deleted are skipped;
// the deletion itself still goes through.
func (s *SaleService) Delete(ctx context.Context, saleID, requesterID string, requesterRole domain.Role) error {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return err
	}

	if sale.UserID != requesterID && requesterRole != domain.RoleAdmin {
		return fmt.Errorf("%w: only the owner or an admin may delete a sale", domain.ErrForbidden)
	}

	for _, line := range sale.Items {
		if _, err := s.ledger.Release(ctx, line.ItemID, line.Quantity); err != nil {
			s.log.WithFields(logrus.Fields{
				"saleId": saleID,
				"itemId": line.ItemID,
				"amount": line.Quantity,
			}).WithError(err).Error("failed to release stock while deleting sale")
		}
	}

	return s.sales.Delete(ctx, saleID)
}

type UpdateSaleInput struct {
	Customer      *string
	PaymentMethod *domain.PaymentMethod
	Status        *domain.SaleStatus
	Notes         *string
}

// Update patches the non-quantity fields of a sale. Line items are
// deliberately not updatable here: changing quantities without walking the
// ledger would silently desync stock, so quantity edits must go through
// Delete followed by Create.
func (s *SaleService) Update(ctx context.Context, saleID string, in UpdateSaleInput, requesterID string, requesterRole domain.Role) (*domain.Sale, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if sale.UserID != requesterID && requesterRole != domain.RoleAdmin && requesterRole != domain.RoleManager {
		return nil, fmt.Errorf("%w: not allowed to update this sale", domain.ErrForbidden)
	}

	if in.Customer != nil {
		if *in.Customer == "" {
			return nil, fmt.Errorf("%w: customer cannot be empty", domain.ErrInvalidArgument)
		}
		sale.Customer = *in.Customer
	}
	if in.PaymentMethod != nil {
		if !in.PaymentMethod.Valid() {
			return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidArgument, *in.PaymentMethod)
		}
		sale.PaymentMethod = *in.PaymentMethod
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, *in.Status)
		}
		if !sale.Status.CanTransitionTo(*in.Status) {
			return nil, fmt.Errorf("%w: cannot transition sale from %s to %s", domain.ErrInvalidArgument, sale.Status, *in.Status)
		}
		sale.Status = *in.Status
	}
	if in.Notes != nil {
		sale.Notes = *in.Notes
	}

	sale.UpdatedAt = time.Now()
	if err := s.sales.Update(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *SaleService) Get(ctx context.Context, saleID string) (*domain.Sale, error) {
	return s.sales.GetByID(ctx, saleID)
}

func (s *SaleService) List(ctx context.Context, filter port.SaleFilter) ([]domain.Sale, error) {
	return s.sales.List(ctx, filter)
}

func (s *SaleService) Stats(ctx context.Context, period port.StatsPeriod) ([]domain.PeriodStat, error) {
	var limit int
	switch period {
	case port.StatsDaily:
		limit = 30
	case port.StatsMonthly:
		limit = 12
	case port.StatsYearly:
		limit = 5
	default:
		return nil, fmt.Errorf("%w: unknown stats period %q", domain.ErrInvalidArgument, period)
	}
	return s.sales.PeriodStats(ctx, period, limit)
}

// rollback releases applied reservations in reverse order. Failures are
// logged and the remaining releases still run; a partially failed rollback
// is reported but never hidden behind the original error.
func (s *SaleService) rollback(ctx context.Context, applied []domain.Reservation) {
	for i := len(applied) - 1; i >= 0; i-- {
		r := applied[i]
		if _, err := s.ledger.Release(ctx, r.ItemID, r.Quantity); err != nil {
			s.log.WithFields(logrus.Fields{
				"itemId": r.ItemID,
				"amount": r.Quantity,
			}).WithError(err).Error("rollback release failed")
		}
	}
}

func validateCreateSale(in CreateSaleInput, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: owner id required", domain.ErrInvalidArgument)
	}
	if in.Customer == "" {
		return fmt.Errorf("%w: customer required", domain.ErrInvalidArgument)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: a sale needs at least one line item", domain.ErrInvalidArgument)
	}
	for i, line := range in.Items {
		if line.ItemID == "" {
			return fmt.Errorf("%w: line %d has no item", domain.ErrInvalidArgument, i)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("%w: line %d quantity must be at least 1", domain.ErrInvalidArgument, i)
		}
		if line.Price.IsNegative() {
			return fmt.Errorf("%w: line %d price cannot be negative", domain.ErrInvalidArgument, i)
		}
	}
	if !in.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidArgument, in.PaymentMethod)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, in.Status)
	}
	return nil
}
