package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"orderflow/internal/domain/catalogs/customer"
	"orderflow/internal/infrastructure/storage/postgres"
)

// CustomerRepo persists customers.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

var _ customer.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"customers",
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// FindByEmail retrieves customer by email.
func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"email": email}).
		Limit(1)
	return r.FindOne(ctx, q)
}
