package engine

import (
	"context"

	"github.com/dessertly/ordersync/internal/models"
)

// readLive returns every order currently in the live store with its customer
// and fully materialized line items. Item fetches run one order at a time in
// header order. An item fetch failure for one order omits that order from
// the result (partial orders are never surfaced) and the scan continues.
func (e *Engine) readLive(ctx context.Context) ([]models.Order, error) {
	headers, err := e.store.Orders().ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(headers))
	for _, header := range headers {
		items, err := e.store.Orders().ListOrderItems(ctx, header.DBID)
		if err != nil {
			e.log.WithError(err).WithField("db_id", header.DBID).
				Warn("skipping order with unreadable items")
			continue
		}
		header.Items = items
		orders = append(orders, header)
	}
	return orders, nil
}
