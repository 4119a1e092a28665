package repository

import "github.com/swarnpos/jewelpos-api/internal/domain/entity"

// ProductRepository is the read-only catalog lookup port. Catalog CRUD lives
// outside this core; the fulfillment engine only resolves references.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
}
