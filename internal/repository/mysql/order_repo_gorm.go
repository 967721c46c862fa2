package mysql

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"joyeria-backend/internal/domain"
	"joyeria-backend/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// lockProducts loads the referenced product rows FOR UPDATE in ascending id
// order. Deterministic lock order keeps two overlapping orders from
// deadlocking each other. includeDeleted must be true when reconciling an
// already-committed order: a product soft-deleted after the sale still has
// to give up its stock.
func lockProducts(tx *gorm.DB, items []domain.OrderItem, includeDeleted bool) (map[uint64]*domain.Product, error) {
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if includeDeleted {
		tx = tx.Unscoped()
	}
	locked := make(map[uint64]*domain.Product, len(ids))
	for _, id := range ids {
		if _, ok := locked[id]; ok {
			continue
		}
		var p domain.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("product %d not found", id)
			}
			return nil, err
		}
		locked[id] = &p
	}
	return locked, nil
}

// checkAndDecrement verifies stock for every line before touching any row,
// then applies all decrements. All-or-nothing inside the caller's
// transaction. Returns the locked rows so callers can snapshot them.
func checkAndDecrement(tx *gorm.DB, items []domain.OrderItem, includeDeleted bool) (map[uint64]*domain.Product, error) {
	locked, err := lockProducts(tx, items, includeDeleted)
	if err != nil {
		return nil, err
	}

	need := make(map[uint64]int64, len(items))
	for _, it := range items {
		need[it.ProductID] += it.Quantity
	}
	for id, qty := range need {
		if locked[id].Stock < qty {
			return nil, fmt.Errorf("%w: product %d has %d, requested %d",
				repository.ErrInsufficientStock, id, locked[id].Stock, qty)
		}
	}

	update := tx
	if includeDeleted {
		update = tx.Unscoped()
	}
	for id, qty := range need {
		err := update.Model(&domain.Product{}).
			Where("id = ?", id).
			UpdateColumn("stock", gorm.Expr("stock - ?", qty)).Error
		if err != nil {
			return nil, err
		}
	}
	return locked, nil
}

func (r *orderRepo) CreateWithStock(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := checkAndDecrement(tx, order.Items, false)
		if err != nil {
			return err
		}

		// Snapshot name and effective price from the locked rows so the
		// order records what was actually sold.
		for i := range order.Items {
			p := locked[order.Items[i].ProductID]
			order.Items[i].Name = p.Name
			order.Items[i].UnitPrice = p.EffectivePrice()
		}

		order.Status = domain.StatusPending
		order.StockApplied = true
		return tx.Create(order).Error
	})
	if err != nil {
		if !errors.Is(err, repository.ErrInsufficientStock) {
			log.Printf("order create error: %v", err)
		}
		return err
	}
	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) ApplyPaymentStatus(ctx context.Context, orderID uint64, gatewayStatus, detail string) (*repository.PaymentResult, error) {
	var result repository.PaymentResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Find(&order.Items).Error; err != nil {
			return err
		}

		// Already paid: duplicate or replayed notification. Acknowledge
		// without touching anything.
		if order.Status == domain.StatusPaid {
			result.Order = &order
			return nil
		}

		// Cancelled and delivered are terminal for the payment state
		// machine. An approved payment landing here means money moved for
		// an order that will not ship; flag it for a human instead of
		// resurrecting the order.
		if order.Status == domain.StatusCancelled || order.Status == domain.StatusDelivered {
			if gatewayStatus == domain.PaymentStatusApproved {
				log.Printf("approved payment for %s order %d ignored; needs manual review (detail: %s)",
					order.Status, orderID, detail)
			}
			result.Order = &order
			return nil
		}

		updates := map[string]any{
			"payment_status": gatewayStatus,
			"payment_detail": detail,
		}

		if gatewayStatus == domain.PaymentStatusApproved {
			if !order.StockApplied {
				if _, err := checkAndDecrement(tx, order.Items, true); err != nil {
					return err
				}
				updates["stock_applied"] = true
				order.StockApplied = true
			}
			updates["status"] = domain.StatusPaid
			order.Status = domain.StatusPaid
			result.Transitioned = true
		}

		if err := tx.Model(&domain.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return err
		}
		order.PaymentStatus = gatewayStatus
		order.PaymentDetail = detail
		result.Order = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	tx := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var out []domain.Order
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
