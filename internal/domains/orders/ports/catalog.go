package ports

import "context"

// Product is the slice of catalog state the order flow needs: identity, the
// price to snapshot, and the stock level to validate against.
type Product struct {
	ID    int64
	Name  string
	Price float64
	Stock int
}

// Catalog looks up products in the catalog service. Requested ids that do not
// exist are simply absent from the result.
type Catalog interface {
	GetProducts(ctx context.Context, ids []int64) ([]Product, error)
}
