package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories"
)

// resolveCustomer finds or creates the canonical customer identity for a
// (name, mobile) pair. A rename of an existing customer is last-write-wins
// and never blocks resolution: if the update fails, the existing identity is
// used anyway. Only the existence check and the create propagate failures.
func (e *Engine) resolveCustomer(ctx context.Context, customer models.Customer) (string, error) {
	repo := e.store.Customers()

	existing, err := repo.FindByMobile(ctx, customer.Mobile)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", fmt.Errorf("failed to look up customer by mobile: %w", err)
	}

	if existing != nil {
		if existing.Name != customer.Name {
			if err := repo.UpdateName(ctx, existing.ID, customer.Name); err != nil {
				e.log.WithError(err).WithFields(logrus.Fields{
					"customer_id": existing.ID,
				}).Warn("customer rename failed, keeping existing identity")
			}
		}
		return existing.ID, nil
	}

	created := customer
	if err := repo.Create(ctx, &created); err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return created.ID, nil
}
