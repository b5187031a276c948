package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"valet-service/internal/export"
	"valet-service/internal/fees"
	"valet-service/internal/http/middleware"
	"valet-service/internal/ingest"
	"valet-service/internal/model"
	"valet-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	valet *service.ValetService
	log   zerolog.Logger
}

func NewHandler(valet *service.ValetService, log zerolog.Logger) *Handler {
	return &Handler{valet: valet, log: log}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/api/v1")
	protected.Use(authMiddleware)

	protected.POST("/imports", h.importFile)

	protected.GET("/transactions", h.listTransactions)
	protected.POST("/transactions", h.createTransaction)
	protected.PUT("/transactions/:id", h.updateTransaction)
	protected.DELETE("/transactions", h.deleteTransactions)
	protected.POST("/transactions/recalculate", h.recalculate)

	protected.GET("/reports/summary", h.getSummary)
	protected.GET("/exports/xlsx", h.exportXLSX)
	protected.GET("/exports/csv", h.exportCSV)

	protected.GET("/pricing", h.getPricing)
	protected.PUT("/pricing/:gate", h.updatePricing)
}

func (h *Handler) importFile(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("file is required"))
		return
	}

	h.log.Info().
		Str("user_id", principal.UserID).
		Str("file", fileHeader.Filename).
		Msg("processing upload")

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("could not open uploaded file"))
		return
	}
	defer f.Close()

	var rows []ingest.Row
	var warnings []model.RowWarning
	switch ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext {
	case ".xlsx", ".xlsm":
		rows, warnings, err = ingest.ParseXLSX(f)
	case ".csv":
		rows, warnings, err = ingest.ParseCSV(f)
	default:
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("unsupported file type %q", ext)))
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.valet.ImportBatch(c.Request.Context(), rows, warnings)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBatch) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "data": result})
			return
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(result))
}

func (h *Handler) listTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.valet.ListTransactions()))
}

type transactionRequest struct {
	EntryTime time.Time `json:"entry_time"`
	ExitTime  time.Time `json:"exit_time" binding:"required"`
	Duration  float64   `json:"duration"`
	ExitGate  string    `json:"exit_gate" binding:"required"`
	PlateNo   string    `json:"plate_no"`
	PayType   string    `json:"pay_type"`
}

func (r transactionRequest) row() ingest.Row {
	return ingest.Row{
		EntryTime: r.EntryTime,
		ExitTime:  r.ExitTime,
		Duration:  r.Duration,
		ExitGate:  r.ExitGate,
		PlateNo:   r.PlateNo,
		PayType:   r.PayType,
	}
}

func (h *Handler) createTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	tx, err := h.valet.CreateTransaction(req.row())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(tx))
}

func (h *Handler) updateTransaction(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("transaction id is required"))
		return
	}

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	tx, err := h.valet.UpdateTransaction(id, req.row())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(tx))
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) deleteTransactions(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	removed, err := h.valet.DeleteTransactions(req.IDs)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"removed": removed}))
}

func (h *Handler) recalculate(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	updated, err := h.valet.Recalculate(req.IDs)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"updated": updated}))
}

func (h *Handler) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.valet.Report(h.parseReportFilter(c))))
}

func (h *Handler) exportXLSX(c *gin.Context) {
	buf, err := export.Workbook(h.valet.ListTransactions())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to build workbook")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="valet-report.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) exportCSV(c *gin.Context) {
	buf, err := export.CSV(h.valet.ListTransactions())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to build csv report")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="valet-report.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *Handler) getPricing(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.valet.Pricing()))
}

func (h *Handler) updatePricing(c *gin.Context) {
	gate := strings.TrimSpace(c.Param("gate"))

	var pricing model.Pricing
	if err := c.ShouldBindJSON(&pricing); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := h.valet.UpdatePricing(gate, pricing); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"gate": gate, "pricing": pricing}))
}

func (h *Handler) parseReportFilter(c *gin.Context) model.ReportFilter {
	filter := model.ReportFilter{
		Gate:    strings.TrimSpace(c.Query("gate")),
		PayType: strings.TrimSpace(c.Query("pay_type")),
	}

	switch strings.ToLower(strings.TrimSpace(c.Query("shift"))) {
	case "morning":
		filter.Shift = model.ShiftMorning
	case "evening":
		filter.Shift = model.ShiftEvening
	}

	if fromStr := strings.TrimSpace(c.Query("from")); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.From = parsed
		}
	}
	if toStr := strings.TrimSpace(c.Query("to")); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.To = parsed
		}
	}

	return filter
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrBatchTooBig),
		errors.Is(err, fees.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{"data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
