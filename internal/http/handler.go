package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/gigpay/internal/http/middleware"
	"github.com/nurpe/gigpay/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	jobs      *service.JobService
	balances  *service.BalanceService
	reports   *service.ReportService
	log       zerolog.Logger
}

func NewHandler(
	contracts *service.ContractService,
	jobs *service.JobService,
	balances *service.BalanceService,
	reports *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		contracts: contracts,
		jobs:      jobs,
		balances:  balances,
		reports:   reports,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/contracts/:id", h.getContract)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/jobs/unpaid", h.listUnpaidJobs)
	protected.POST("/jobs/:job_id/pay", h.payJob)
	protected.GET("/jobs/:job_id/receipt", h.jobReceipt)
	protected.POST("/balances/deposit/:userId", h.deposit)

	admin := router.Group("/admin")
	admin.GET("/best-profession", h.bestProfession)
	admin.GET("/best-clients", h.bestClients)
	admin.GET("/best-clients/export", h.exportBestClients)
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	contractID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid contract id"})
		return
	}

	contract, err := h.contracts.GetByID(c.Request.Context(), contractID, principal)
	if err != nil {
		h.respondError(c, err, errMeta{profileID: principal.ID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contract})
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	contracts, err := h.contracts.ListForCaller(c.Request.Context(), principal)
	if err != nil {
		h.respondError(c, err, errMeta{profileID: principal.ID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": contracts})
}

func (h *Handler) listUnpaidJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	jobs, err := h.jobs.ListUnpaid(c.Request.Context(), principal)
	if err != nil {
		h.respondError(c, err, errMeta{profileID: principal.ID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

func (h *Handler) payJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	jobID, err := strconv.ParseInt(c.Param("job_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid job id"})
		return
	}

	if err := h.jobs.Pay(c.Request.Context(), jobID, principal); err != nil {
		h.respondError(c, err, errMeta{profileID: principal.ID, jobID: jobID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment successful"})
}

func (h *Handler) jobReceipt(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	jobID, err := strconv.ParseInt(c.Param("job_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid job id"})
		return
	}

	result, err := h.jobs.Receipt(c.Request.Context(), jobID, principal)
	if err != nil {
		h.respondError(c, err, errMeta{profileID: principal.ID, jobID: jobID})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) deposit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	targetID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(c.Query("amount")), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid amount"})
		return
	}

	if err := h.balances.Deposit(c.Request.Context(), principal, targetID, amount); err != nil {
		h.respondError(c, err, errMeta{profileID: principal.ID, targetID: targetID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deposit successful"})
}

func (h *Handler) bestProfession(c *gin.Context) {
	start, end, ok := h.parseWindow(c)
	if !ok {
		return
	}

	result, err := h.reports.BestProfession(c.Request.Context(), start, end)
	if err != nil {
		h.respondError(c, err, errMeta{
			start: c.Query("start"),
			end:   c.Query("end"),
			emptyMessage: "No highest earning profession found for the given time range",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) bestClients(c *gin.Context) {
	start, end, ok := h.parseWindow(c)
	if !ok {
		return
	}
	limit := parseLimit(c.Query("limit"))

	clients, err := h.reports.BestClients(c.Request.Context(), start, end, limit)
	if err != nil {
		h.respondError(c, err, errMeta{
			start: c.Query("start"),
			end:   c.Query("end"),
			emptyMessage: "No highest paying clients found for the given time range",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients})
}

func (h *Handler) exportBestClients(c *gin.Context) {
	start, end, ok := h.parseWindow(c)
	if !ok {
		return
	}
	limit := parseLimit(c.Query("limit"))

	result, err := h.reports.ExportBestClients(c.Request.Context(), start, end, limit)
	if err != nil {
		h.respondError(c, err, errMeta{
			start: c.Query("start"),
			end:   c.Query("end"),
			emptyMessage: "No highest paying clients found for the given time range",
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

// errMeta carries the request identifiers the error bodies echo back.
type errMeta struct {
	profileID    int64
	jobID        int64
	targetID     int64
	start        string
	end          string
	emptyMessage string
}

func (h *Handler) respondError(c *gin.Context, err error, meta errMeta) {
	var insufficient *service.InsufficientBalanceError
	var capErr *service.DepositCapError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"message":        "Not enough balance",
			"currentBalance": insufficient.CurrentBalance,
			"minimumBalance": insufficient.MinimumBalance,
		})
	case errors.As(err, &capErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"message":          "Invalid deposit. Can't deposit more than 25% of the total of jobs to pay.",
			"totalOfJobsToPay": capErr.TotalOutstanding,
			"maxDeposit":       capErr.MaxDeposit,
			"currentDeposit":   capErr.Amount,
		})
	case errors.Is(err, service.ErrSelfDepositOnly):
		c.JSON(http.StatusBadRequest, gin.H{
			"message":         "You can only deposit to your own account.",
			"yourId":          meta.profileID,
			"userIdToDeposit": meta.targetID,
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"message": "Only client profiles can perform this action"})
	case errors.Is(err, service.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"message":  "JobId not found for this client",
			"jobId":    meta.jobID,
			"clientId": meta.profileID,
		})
	case errors.Is(err, service.ErrReceiptNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"message":   "No paid job found for this profile id",
			"jobId":     meta.jobID,
			"profileId": meta.profileID,
		})
	case errors.Is(err, service.ErrUnpaidJobsNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"message":   "No active contracts or unpaid jobs found for this profile id",
			"profileId": meta.profileID,
		})
	case errors.Is(err, service.ErrContractNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"message":   "No active contracts found for this profile id",
			"profileId": meta.profileID,
		})
	case errors.Is(err, service.ErrReportEmpty):
		c.JSON(http.StatusNotFound, gin.H{
			"message": meta.emptyMessage,
			"start":   meta.start,
			"end":     meta.end,
		})
	case errors.Is(err, service.ErrTransactionFailed):
		h.log.Error().Err(err).Msg("settlement transaction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Transaction failed"})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func (h *Handler) parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid start"})
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid end"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
