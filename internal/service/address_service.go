// Package service provides the business logic of the addresses API.
// Services sit between the HTTP handlers and the repositories: they run the
// profanity filter and validation, call the repository, and turn storage
// failures into generic, operation specific errors.
package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/metrics"
	"github.com/bytecodeman/addressesapi/internal/models"
	"github.com/bytecodeman/addressesapi/internal/profanity"
	"github.com/bytecodeman/addressesapi/internal/repository"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

// AddressService implements the address operations exposed over HTTP.
type AddressService struct {
	repo    repository.AddressRepository
	checker profanity.Checker
}

// NewAddressService creates a new AddressService.
// A nil checker disables the profanity filter.
func NewAddressService(repo repository.AddressRepository, checker profanity.Checker) *AddressService {
	if checker == nil {
		checker = profanity.Disabled{}
	}
	return &AddressService{
		repo:    repo,
		checker: checker,
	}
}

// List returns one page of addresses together with the listing metadata.
func (s *AddressService) List(ctx context.Context, params utils.PaginationParams) (*models.AddressPage, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, persistenceError(constants.MsgFailedFetchAddresses, err)
	}

	addresses, err := s.repo.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, persistenceError(constants.MsgFailedFetchAddresses, err)
	}

	return &models.AddressPage{
		Data: addresses,
		Metadata: models.PageMetadata{
			TotalRecords: total,
			TotalPages:   params.TotalPages(total),
			CurrentPage:  params.Page,
			Limit:        params.Limit,
		},
	}, nil
}

// ListAll returns every address ordered by id.
func (s *AddressService) ListAll(ctx context.Context) ([]models.Address, error) {
	addresses, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, persistenceError(constants.MsgFailedFetchAddresses, err)
	}
	return addresses, nil
}

// Count returns the number of stored addresses.
func (s *AddressService) Count(ctx context.Context) (*models.CountResult, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, persistenceError(constants.MsgFailedCount, err)
	}
	return &models.CountResult{Count: count}, nil
}

// Search returns the ids of addresses containing keyword in any text field.
func (s *AddressService) Search(ctx context.Context, keyword string) (*models.SearchResult, error) {
	if keyword == "" {
		return nil, utils.NewValidationError(constants.QueryParamSearch, constants.MsgSearchQueryRequired)
	}

	ids, err := s.repo.Search(ctx, keyword)
	if err != nil {
		return nil, persistenceError(constants.MsgFailedSearch, err)
	}
	return &models.SearchResult{IDs: ids}, nil
}

// Get returns a single address with its position in id order.
func (s *AddressService) Get(ctx context.Context, id int64) (*models.AddressWithPosition, error) {
	address, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, persistenceError(constants.MsgFailedFetchAddress, err)
	}
	return address, nil
}

// Create stores a new address and returns its id.
func (s *AddressService) Create(ctx context.Context, input *models.AddressInput) (int64, error) {
	if err := s.checkInput(input); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, input.FieldValues())
	if err != nil {
		return 0, persistenceError(constants.MsgFailedAdd, err)
	}
	return id, nil
}

// Replace overwrites all five fields of an existing address.
func (s *AddressService) Replace(ctx context.Context, id int64, input *models.AddressInput) error {
	if err := s.checkInput(input); err != nil {
		return err
	}

	if err := s.repo.Replace(ctx, id, input.FieldValues()); err != nil {
		return persistenceError(constants.MsgFailedUpdate, err)
	}
	return nil
}

// Patch updates the writable fields named in entries, in the order given.
// Unknown keys are ignored.
func (s *AddressService) Patch(ctx context.Context, id int64, entries []models.PatchEntry) error {
	if err := s.checkProfanity(models.RecognizedStrings(entries)); err != nil {
		return err
	}

	updates, err := models.FilterPatch(entries)
	if err != nil {
		return err
	}

	if err := s.repo.Patch(ctx, id, updates); err != nil {
		return persistenceError(constants.MsgFailedUpdate, err)
	}
	return nil
}

// Delete removes an address.
func (s *AddressService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return persistenceError(constants.MsgFailedDelete, err)
	}
	return nil
}

// checkInput runs the profanity filter and then the required-field validation.
func (s *AddressService) checkInput(input *models.AddressInput) error {
	if input == nil {
		return utils.NewValidationError("", constants.MsgAllFieldsRequired)
	}
	if err := s.checkProfanity(input.FieldValues()); err != nil {
		return err
	}
	return utils.ValidateStruct(input)
}

// checkProfanity names every field whose value contains a disallowed word.
func (s *AddressService) checkProfanity(values []models.FieldValue) error {
	var fields []string
	for _, fv := range values {
		if s.checker.ContainsProfanity(fv.Value) {
			fields = append(fields, fv.Field.String())
		}
	}
	if len(fields) == 0 {
		return nil
	}

	metrics.RecordProfanity(fields)
	log.Warn().Strs("fields", fields).Msg("Rejected profane content")

	return utils.NewProfaneContentError(fields)
}

// persistenceError passes application errors through and hides everything
// else behind message.
func persistenceError(message string, err error) error {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return utils.NewPersistenceError(message, err)
}
