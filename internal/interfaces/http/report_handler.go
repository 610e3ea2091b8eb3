package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mennyrose/Bunker-data/internal/application/dto"
	"github.com/mennyrose/Bunker-data/internal/application/reporting"
	"github.com/mennyrose/Bunker-data/internal/domain"
)

// ReportHandler serves the dashboard report endpoints.
type ReportHandler struct {
	uc *reporting.UseCase
}

func NewReportHandler(uc *reporting.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Snapshot godoc
// @Summary      Dashboard snapshot: balances, ranking, per-unit totals
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.SnapshotResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reports/snapshot [get]
func (h *ReportHandler) Snapshot(c *fiber.Ctx) error {
	out, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Reload the ledger and catalog from the store
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.SnapshotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reports/refresh [post]
func (h *ReportHandler) Refresh(c *fiber.Ctx) error {
	if _, err := h.uc.Refresh(c.Context()); err != nil {
		return reportError(c, err)
	}
	out, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Filtered search over the ledger with a grouped summary
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SearchRequest  true  "filter criteria"
// @Success      200   {object}  dto.SearchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/search [post]
func (h *ReportHandler) Search(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	out, err := h.uc.Search(c.Context(), in)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(out)
}

// Runway godoc
// @Summary      Days-of-stock estimate from the trailing usage rate
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.RunwayResponse
// @Router       /api/reports/runway [get]
func (h *ReportHandler) Runway(c *fiber.Ctx) error {
	out, err := h.uc.Runway(c.Context())
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(out)
}

// Catalog godoc
// @Summary      Item catalog listing
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.CatalogItemResponse
// @Router       /api/catalog [get]
func (h *ReportHandler) Catalog(c *fiber.Ctx) error {
	out, err := h.uc.Catalog(c.Context())
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Export the summary as a spreadsheet or PDF
// @Tags         reports
// @Accept       json
// @Produce      application/octet-stream
// @Param        format  query  string             false  "xlsx (default) or pdf"
// @Param        body    body   dto.SearchRequest  true   "filter criteria"
// @Success      200     {file}    binary
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/reports/export [post]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	format := c.Query("format", reporting.ExportFormatXLSX)

	data, err := h.uc.Export(c.Context(), in, format)
	if err != nil {
		return reportError(c, err)
	}

	filename := fmt.Sprintf("summary_%s.%s", time.Now().Format("2006-01-02"), format)
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == reporting.ExportFormatPDF {
		contentType = "application/pdf"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// reportError maps domain errors to HTTP statuses.
func reportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrRefreshInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REFRESH_IN_PROGRESS", Message: "a refresh is already running, retry shortly"})
	case errors.Is(err, domain.ErrNoExportData):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_EXPORT_DATA", Message: "the selected summary has no rows to export"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
