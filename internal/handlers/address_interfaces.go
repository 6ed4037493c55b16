// Package handlers provides HTTP request handlers for the addresses API.
package handlers

import (
	"context"

	"github.com/bytecodeman/addressesapi/internal/models"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

// AddressServiceInterface defines methods required from the address service.
// Handlers only shape HTTP requests and responses; every rule lives behind this interface.
type AddressServiceInterface interface {
	// List returns one page of addresses ordered by id, with listing metadata.
	List(ctx context.Context, params utils.PaginationParams) (*models.AddressPage, error)

	// ListAll returns every address ordered by id.
	ListAll(ctx context.Context) ([]models.Address, error)

	// Count returns the number of stored addresses.
	Count(ctx context.Context) (*models.CountResult, error)

	// Search returns the ids of addresses containing the keyword in any text field.
	Search(ctx context.Context, keyword string) (*models.SearchResult, error)

	// Get returns one address with its 1-based position in id order.
	Get(ctx context.Context, id int64) (*models.AddressWithPosition, error)

	// Create stores a new address and returns its id.
	Create(ctx context.Context, input *models.AddressInput) (int64, error)

	// Replace overwrites all five text fields of an address.
	Replace(ctx context.Context, id int64, input *models.AddressInput) error

	// Patch updates the writable fields named in entries.
	Patch(ctx context.Context, id int64, entries []models.PatchEntry) error

	// Delete removes an address.
	Delete(ctx context.Context, id int64) error
}

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
