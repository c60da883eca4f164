package engine

import (
	"context"
	"fmt"

	"github.com/dessertly/ordersync/internal/models"
)

// Create persists a fully-formed order (monetary fields already computed by
// the caller) and refreshes the timeline so the new order is visible.
//
// The steps are sequential, not atomic: a failure aborts the remaining steps
// and propagates, and rows already written stay written. Infrastructure
// failures here are hard failures; creation never silently degrades.
func (e *Engine) Create(ctx context.Context, order models.Order) error {
	customerID, err := e.resolveCustomer(ctx, order.Customer)
	if err != nil {
		return err
	}

	dbID, err := e.store.Orders().CreateOrder(ctx, &order, customerID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].TotalPrice = order.Items[i].Item.Price * float64(order.Items[i].Quantity)
	}
	if err := e.store.Orders().CreateOrderItems(ctx, dbID, order.Items); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}

	if _, err := e.Refresh(ctx); err != nil {
		return fmt.Errorf("order written but refresh failed: %w", err)
	}
	return nil
}

// Delete removes the order with the given persistence id. It never
// propagates: the result is a plain success flag.
//
// Bulk-sourced orders have no live-store row; deleting one only removes it
// from the current in-memory view, and the next refresh re-materializes it
// from the file.
func (e *Engine) Delete(ctx context.Context, dbID string) bool {
	if e.parser.IsBulkID(dbID) {
		return e.removeFromView(dbID)
	}

	if err := e.store.Orders().DeleteOrder(ctx, dbID); err != nil {
		e.log.WithError(err).WithField("db_id", dbID).Warn("order delete failed")
		return false
	}

	if _, err := e.Refresh(ctx); err != nil {
		e.log.WithError(err).Warn("refresh after delete failed")
		e.removeFromView(dbID)
	}
	return true
}

func (e *Engine) removeFromView(dbID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, order := range e.orders {
		if order.DBID == dbID {
			e.orders = append(e.orders[:i], e.orders[i+1:]...)
			return true
		}
	}
	return false
}
