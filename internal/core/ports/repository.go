package ports

import (
	"context"

	"github.com/antaww/uta/internal/core/domain"
)

// CatalogSource loads the static catalog table in table order.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) ([]domain.Track, error)
}

// CatalogRepository is a catalog source that can also be written to.
type CatalogRepository interface {
	CatalogSource
	SaveCatalog(ctx context.Context, tracks []domain.Track) error
}
