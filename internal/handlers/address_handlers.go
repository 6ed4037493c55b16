package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bytecodeman/addressesapi/internal/auth"
	"github.com/bytecodeman/addressesapi/internal/config"
	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/models"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

// AddressHandler handles the address routes
type AddressHandler struct {
	addressService AddressServiceInterface
	pagination     config.PaginationSettings
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressService AddressServiceInterface, pagination config.PaginationSettings) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		pagination:     pagination,
	}
}

// ListAddresses returns one page of addresses
func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	params := utils.GetPaginationParams(r, h.pagination.DefaultLimit, h.pagination.MaxLimit)

	page, err := h.addressService.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, page)
}

// SearchAddresses returns the ids of addresses matching the query parameter
func (h *AddressHandler) SearchAddresses(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get(constants.QueryParamSearch)

	result, err := h.addressService.Search(r.Context(), keyword)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// CountAddresses returns the number of addresses
func (h *AddressHandler) CountAddresses(w http.ResponseWriter, r *http.Request) {
	result, err := h.addressService.Count(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// GetAddress returns a single address
func (h *AddressHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, err := parseAddressID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	address, err := h.addressService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, address)
}

// CreateAddress adds a new address
func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var input models.AddressInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.addressService.Create(r.Context(), &input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, models.CreateResult{
		Message:   constants.MsgAddressAdded,
		AddressID: id,
	})
}

// ReplaceAddress overwrites every field of an address
func (h *AddressHandler) ReplaceAddress(w http.ResponseWriter, r *http.Request) {
	id, err := parseAddressID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input models.AddressInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.addressService.Replace(r.Context(), id, &input); err != nil {
		writeError(w, r, err)
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgAddressUpdated)
}

// PatchAddress updates the supplied fields of an address
func (h *AddressHandler) PatchAddress(w http.ResponseWriter, r *http.Request) {
	id, err := parseAddressID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.LimitBody(w, r)
	entries, err := models.DecodePatchPayload(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.addressService.Patch(r.Context(), id, entries); err != nil {
		writeError(w, r, err)
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgAddressUpdated)
}

// DeleteAddress removes an address
func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := parseAddressID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.addressService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgAddressDeleted)
}

// parseAddressID reads the id path parameter. Anything but a positive integer is a validation error.
func parseAddressID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, constants.ParamID), 10, 64)
	if err != nil || id < 1 {
		return 0, utils.NewValidationError(constants.ParamID, constants.MsgInvalidAddressID)
	}
	return id, nil
}

// writeError logs a failed request and sends its error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := utils.ParseError(err)
	requestID, _ := auth.GetRequestID(r)
	username, _ := auth.GetUsername(r)
	utils.LogAppError(requestID, username, appErr)
	utils.ErrorFromAppError(w, appErr)
}
