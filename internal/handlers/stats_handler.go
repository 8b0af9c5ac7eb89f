package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-prep-service/internal/models"
	"github.com/SAP-F-2025/exam-prep-service/internal/services"
	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
	"github.com/SAP-F-2025/exam-prep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	BaseHandler
	statsService services.StatsService
	locales      *LocaleResolver
}

func NewStatsHandler(statsService services.StatsService, locales *LocaleResolver, logger utils.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler:  NewBaseHandler(logger),
		statsService: statsService,
		locales:      locales,
	}
}

// SummaryResponse is the headline block of the statistics page.
type SummaryResponse struct {
	Period  stats.Period  `json:"period"`
	Summary stats.Summary `json:"summary"`
	Level   stats.Level   `json:"level"`
	Rank    stats.Rank    `json:"rank"`
}

type ChartResponse struct {
	Metric       stats.Metric        `json:"metric"`
	ChartType    stats.ChartType     `json:"chart_type"`
	Chart        []stats.ChartPoint  `json:"chart"`
	MetricSeries []stats.MetricPoint `json:"metric_series"`
}

// GetOverview returns every statistics block for the selected view
// @Summary Get statistics overview
// @Tags stats
// @Produce json
// @Param period query string false "week, month, quarter, year, all or custom"
// @Success 200 {object} stats.Report
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /stats/overview [get]
func (h *StatsHandler) GetOverview(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetSummary returns the summary metrics with level and rank
// @Router /stats/summary [get]
func (h *StatsHandler) GetSummary(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{
		Period:  report.Period,
		Summary: report.Summary,
		Level:   report.Level,
		Rank:    report.Rank,
	})
}

// GetChart returns the per-attempt chart series and the selected metric
// @Router /stats/chart [get]
func (h *StatsHandler) GetChart(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ChartResponse{
		Metric:       report.Metric,
		ChartType:    report.ChartType,
		Chart:        report.Chart,
		MetricSeries: report.MetricSeries,
	})
}

// GetWeekly returns the trailing weekly progress windows
// @Router /stats/weekly [get]
func (h *StatsHandler) GetWeekly(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": report.Period, "weekly": report.Weekly})
}

// GetDistribution returns the score band distribution
// @Router /stats/distribution [get]
func (h *StatsHandler) GetDistribution(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": report.Period, "distribution": report.Distribution})
}

// GetAttempts returns one page of the sorted attempt list
// @Router /stats/attempts [get]
func (h *StatsHandler) GetAttempts(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report.Attempts)
}

// Export downloads the selected attempts as csv, json or xlsx
// @Summary Export statistics
// @Tags stats
// @Produce octet-stream
// @Param format query string true "csv, json or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /stats/export [get]
func (h *StatsHandler) Export(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req models.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err, err.Error())
		return
	}

	h.LogRequest(c, "Exporting statistics", "format", req.Format, "period", req.Period)

	file, err := h.statsService.Export(c.Request.Context(), userID, &req, h.locales.Resolve(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Statistics exported", "filename", file.Filename, "records", file.Records)
	respondWithFile(c, file)
}

// report binds the view query and builds the report, writing the error
// response itself when it fails.
func (h *StatsHandler) report(c *gin.Context) (*stats.Report, bool) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return nil, false
	}

	var query models.StatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err, err.Error())
		return nil, false
	}

	report, err := h.statsService.GetReport(c.Request.Context(), userID, &query, h.locales.Resolve(c))
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}
	return report, true
}
