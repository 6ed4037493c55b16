package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/models"
)

//go:embed templates/webscrape.html
var templateFS embed.FS

var webScrapeTemplate = template.Must(template.ParseFS(templateFS, "templates/webscrape.html"))

// webScrapePage is the data rendered into the listing page.
type webScrapePage struct {
	Title     string
	Addresses []models.Address
}

// WebScrapePage renders every address as a plain HTML table.
// The route is public so scraping exercises can read it without credentials.
func (h *AddressHandler) WebScrapePage(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.addressService.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Render to a buffer first so a template failure can still produce a clean 500
	var buf bytes.Buffer
	if err := webScrapeTemplate.Execute(&buf, webScrapePage{Title: "Addresses", Addresses: addresses}); err != nil {
		log.Error().Err(err).Msg("Failed to render address listing")
		http.Error(w, constants.MsgInternalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("Failed to write address listing")
	}
}
