package server

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/creditbridge/backend/internal/assessment"
	"github.com/vanshika/creditbridge/backend/internal/domain"
	"github.com/vanshika/creditbridge/backend/internal/handoff"
	"github.com/vanshika/creditbridge/backend/internal/query"
	"github.com/vanshika/creditbridge/backend/internal/repository"
	"github.com/vanshika/creditbridge/backend/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger      *slog.Logger
	profiles    *service.ProfileService
	assessments *service.AssessmentService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, profiles *service.ProfileService, assessments *service.AssessmentService) *APIHandlers {
	return &APIHandlers{
		logger:      logger,
		profiles:    profiles,
		assessments: assessments,
	}
}

func (h *APIHandlers) handleProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	params, err := searchParamsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.profiles.SearchProfiles(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, err, "failed to list profiles")
		return
	}

	resp := listProfilesResponse{
		Items:      make([]profileResponse, 0, len(result.Items)),
		Pagination: toPaginationResponse(result.Pagination),
	}
	for _, p := range result.Items {
		resp.Items = append(resp.Items, toProfileResponse(p))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/profiles/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "profile ID is required")
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to fetch profile")
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *APIHandlers) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	summary, err := h.profiles.Summary(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "failed to summarize profiles")
		return
	}
	respondJSON(w, http.StatusOK, toSummaryResponse(summary))
}

var exportHeader = []string{
	"ID", "Name", "Email", "Phone", "Assessment Date", "Loan Amount",
	"Credit Score", "Risk Level", "Decision", "Confidence",
}

func (h *APIHandlers) handleExportProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	values := r.URL.Query()
	format := strings.ToLower(strings.TrimSpace(values.Get("format")))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		writeError(w, http.StatusBadRequest, "format must be csv or json")
		return
	}

	params, err := searchParamsFromQuery(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	profiles, err := h.profiles.ExportProfiles(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, err, "failed to export profiles")
		return
	}

	if format == "json" {
		items := make([]profileResponse, 0, len(profiles))
		for _, p := range profiles {
			items = append(items, toProfileResponse(p))
		}
		respondJSON(w, http.StatusOK, items)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="credit-profiles.csv"`)
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	_ = writer.Write(exportHeader)
	for _, p := range profiles {
		_ = writer.Write([]string{
			p.ID,
			p.Name,
			p.Email,
			p.Phone,
			p.AssessmentDate.Format(domain.DateLayout),
			p.LoanAmount.String(),
			strconv.Itoa(p.CreditScore),
			string(p.RiskLevel),
			string(p.Decision),
			strconv.FormatFloat(p.Confidence, 'f', 1, 64),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Error("failed to write csv export", "error", err)
	}
}

func (h *APIHandlers) handleAssessments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	view := h.assessments.Create()
	respondJSON(w, http.StatusCreated, toAssessmentResponse(view))
}

// handleAssessment dispatches /assessments/{id} and /assessments/{id}/{action}.
func (h *APIHandlers) handleAssessment(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/assessments/"), "/")
	parts := strings.Split(rest, "/")
	if rest == "" || len(parts) > 2 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getAssessment(w, id)
		case http.MethodDelete:
			h.deleteAssessment(w, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodDelete)
		}
		return
	}

	switch action := parts[1]; action {
	case "fields":
		if r.Method != http.MethodPatch {
			methodNotAllowed(w, http.MethodPatch)
			return
		}
		h.setAssessmentFields(w, r, id)
	case "next", "previous":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		move := h.assessments.Next
		if action == "previous" {
			move = h.assessments.Previous
		}
		view, err := move(id)
		if err != nil {
			h.writeServiceError(w, err, "failed to change step")
			return
		}
		respondJSON(w, http.StatusOK, toAssessmentResponse(view))
	case "submit":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.submitAssessment(w, r, id)
	case "progress":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.assessmentProgress(w, r, id)
	case "result":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.assessmentResult(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *APIHandlers) getAssessment(w http.ResponseWriter, id string) {
	view, err := h.assessments.Get(id)
	if err != nil {
		h.writeServiceError(w, err, "failed to fetch assessment")
		return
	}
	respondJSON(w, http.StatusOK, toAssessmentResponse(view))
}

func (h *APIHandlers) deleteAssessment(w http.ResponseWriter, id string) {
	if err := h.assessments.Discard(id); err != nil {
		h.writeServiceError(w, err, "failed to discard assessment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandlers) setAssessmentFields(w http.ResponseWriter, r *http.Request, id string) {
	var payload map[string]domain.FieldValue
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "at least one field is required")
		return
	}

	view, err := h.assessments.SetFields(id, payload)
	if err != nil {
		h.writeServiceError(w, err, "failed to update assessment")
		return
	}
	respondJSON(w, http.StatusOK, toAssessmentResponse(view))
}

func (h *APIHandlers) submitAssessment(w http.ResponseWriter, r *http.Request, id string) {
	view, err := h.assessments.Submit(r.Context(), id)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, toAssessmentResponse(view))
	case errors.Is(err, assessment.ErrSessionNotFound),
		errors.Is(err, assessment.ErrNotFinalStep),
		errors.Is(err, assessment.ErrSessionClosed),
		errors.Is(err, assessment.ErrSessionBusy):
		h.writeServiceError(w, err, "failed to submit assessment")
	default:
		// the session carries the error text; the form stays on its step
		respondJSON(w, http.StatusBadGateway, toAssessmentResponse(view))
	}
}

func (h *APIHandlers) assessmentProgress(w http.ResponseWriter, r *http.Request, id string) {
	elapsedMs, err := parseInt64(r.URL.Query().Get("elapsedMs"), 0)
	if err != nil || elapsedMs < 0 {
		writeError(w, http.StatusBadRequest, "elapsedMs must be a non-negative integer")
		return
	}
	// anything past the last stage reads as done; capping first keeps the conversion in range
	elapsedMs = min(elapsedMs, assessment.TotalProcessingTime().Milliseconds())
	report, err := h.assessments.Progress(r.Context(), id, time.Duration(elapsedMs)*time.Millisecond)
	if err != nil {
		h.writeServiceError(w, err, "failed to compute progress")
		return
	}
	respondJSON(w, http.StatusOK, toProgressResponse(report))
}

func (h *APIHandlers) assessmentResult(w http.ResponseWriter, r *http.Request, id string) {
	outcome, err := h.assessments.Result(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to load assessment result")
		return
	}
	respondJSON(w, http.StatusOK, toResultResponse(outcome))
}

// writeServiceError maps service sentinels to HTTP statuses. Unknown errors
// are logged and reported with the fallback message.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidQuery),
		errors.Is(err, assessment.ErrUnknownField),
		errors.Is(err, assessment.ErrFieldKind):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, assessment.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, handoff.ErrEmpty):
		writeError(w, http.StatusNotFound, "cannot load results")
	case errors.Is(err, assessment.ErrNotFinalStep),
		errors.Is(err, assessment.ErrSessionClosed),
		errors.Is(err, assessment.ErrSessionBusy):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func searchParamsFromQuery(values url.Values) (service.ProfileSearchParams, error) {
	params := service.ProfileSearchParams{
		Page:      clampInt(parseInt(values.Get("page"), 1), 1, query.MaxPage),
		PageSize:  parseInt(values.Get("pageSize"), query.DefaultPageSize),
		Search:    values.Get("search"),
		Decision:  values.Get("decision"),
		Risk:      values.Get("risk"),
		SortField: values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
	}

	if params.PageSize <= 0 {
		params.PageSize = query.DefaultPageSize
	}
	params.PageSize = min(params.PageSize, query.MaxPageSize)

	var err error
	if params.MinLoanAmount, err = parseDecimalParam(values, "minLoanAmount"); err != nil {
		return params, err
	}
	if params.MaxLoanAmount, err = parseDecimalParam(values, "maxLoanAmount"); err != nil {
		return params, err
	}
	if params.MinCreditScore, err = parseIntParam(values, "minCreditScore"); err != nil {
		return params, err
	}
	if params.MaxCreditScore, err = parseIntParam(values, "maxCreditScore"); err != nil {
		return params, err
	}
	return params, nil
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func parseDecimalParam(values url.Values, key string) (*decimal.Decimal, error) {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &d, nil
}

func parseIntParam(values url.Values, key string) (*int, error) {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &n, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func parseInt64(value string, fallback int64) (int64, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseInt(value, 10, 64)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
