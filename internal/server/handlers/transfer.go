package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/agentstation/toolhub/internal/analytics"
	"github.com/agentstation/toolhub/internal/server/events"
	"github.com/agentstation/toolhub/internal/server/response"
	"github.com/agentstation/toolhub/internal/transfer"
	"github.com/agentstation/toolhub/pkg/errors"
)

const maxImportBody = 20 << 20

// ImportResult is the outcome of an import request.
type ImportResult struct {
	Imported int                 `json:"imported"`
	IDs      []string            `json:"ids"`
	Invalid  []transfer.Rejected `json:"invalid"`
	DryRun   bool                `json:"dryRun"`
}

// HandleExport handles GET /api/v1/{collection}/export.
// @Summary Export collection
// @Description Download the collection as a spreadsheet, CSV, YAML or Markdown
// @Tags admin
// @Produce application/octet-stream
// @Param collection path string true "tools or guides"
// @Param format query string false "xlsx (default), csv, yaml or md"
// @Success 200 {file} file
// @Failure 400 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/{collection}/export [get].
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request, collection string) {
	kind, err := kindFor(collection)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	format, err := formatParam(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	items, err := h.snapshot(r, collection)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	// Render before writing headers so a failure can still become JSON.
	var buf bytes.Buffer
	if err := transfer.Export(&buf, format, kind, items); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	filename := transfer.Filename(collection, format, analytics.DayKey(h.now()))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleTemplate handles GET /api/v1/{collection}/template.
// @Summary Import template
// @Description Spreadsheet with the import headers and one sample row
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param collection path string true "tools or guides"
// @Success 200 {file} file
// @Router /api/v1/{collection}/template [get].
func (h *Handlers) HandleTemplate(w http.ResponseWriter, _ *http.Request, collection string) {
	kind, err := kindFor(collection)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	var buf bytes.Buffer
	if err := transfer.WriteTemplate(&buf, kind); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	w.Header().Set("Content-Type", transfer.FormatXLSX.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+collection+`_template.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleImport handles POST /api/v1/{collection}/import.
// @Summary Import items
// @Description Upload a file of items. Valid rows are stored and invalid rows reported.
// @Tags admin
// @Accept application/octet-stream
// @Produce json
// @Param collection path string true "tools or guides"
// @Param format query string false "xlsx (default), csv or yaml"
// @Param dry_run query boolean false "Validate without storing"
// @Success 200 {object} response.Response{data=ImportResult}
// @Failure 400 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/{collection}/import [post].
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request, collection string) {
	kind, err := kindFor(collection)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	format, err := formatParam(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

	items, err := transfer.Import(http.MaxBytesReader(w, r.Body, maxImportBody), format, kind)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	report := transfer.ValidateBatch(items)
	result := ImportResult{IDs: []string{}, Invalid: report.Invalid, DryRun: dryRun}

	if dryRun || len(report.Valid) == 0 {
		response.OK(w, result)
		return
	}

	st, err := h.app.Store()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	rejected := make(map[int]bool, len(report.Invalid))
	for _, rej := range report.Invalid {
		rejected[rej.Row] = true
	}
	for i, item := range items {
		if rejected[i+1] {
			continue
		}
		stored, err := st.Put(r.Context(), collection, item)
		if err != nil {
			if errors.IsUnavailable(err) {
				response.ErrorFromType(w, err)
				return
			}
			result.Invalid = append(result.Invalid, transfer.Rejected{
				Row: i + 1, Item: item, Errors: []error{err}, Issues: []string{err.Error()},
			})
			continue
		}
		result.IDs = append(result.IDs, stored.ID)
	}
	result.Imported = len(result.IDs)

	h.logger.Info().
		Str("collection", collection).
		Int("imported", result.Imported).
		Int("invalid", len(result.Invalid)).
		Msg("Import completed")

	if result.Imported > 0 {
		h.invalidate(collection)
		h.publish(events.ItemsImported, collection, map[string]any{"count": result.Imported})
	}
	response.OK(w, result)
}

// formatParam reads ?format=, defaulting to xlsx.
func formatParam(r *http.Request) (transfer.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return transfer.FormatXLSX, nil
	}
	format, ok := transfer.ParseFormat(raw)
	if !ok {
		return "", errors.NewValidationError("format", raw, "must be xlsx, csv, yaml or md")
	}
	return format, nil
}
