package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lachho/property-sub000/internal/cache"
	"github.com/lachho/property-sub000/internal/config"
	"github.com/lachho/property-sub000/internal/forecast"
	"github.com/lachho/property-sub000/pkg/borrowing"
	"github.com/lachho/property-sub000/pkg/constants"
	"github.com/lachho/property-sub000/pkg/datetime"
	"github.com/lachho/property-sub000/pkg/gearing"
	"github.com/lachho/property-sub000/pkg/loans"
	"github.com/lachho/property-sub000/pkg/output"
	"github.com/lachho/property-sub000/pkg/portfolio"
	"github.com/lachho/property-sub000/pkg/projection"
	"github.com/lachho/property-sub000/pkg/tax"
	"github.com/lachho/property-sub000/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         cache.Cache
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the calculator and
// forecast API. A nil cache disables response caching.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, c cache.Cache) http.Handler {
	return newHandler(logger, maxUploadSize, version, c).routes()
}

func newHandler(logger *zap.Logger, maxUploadSize int64, version string, c cache.Cache) *handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	return &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		cache:         c,
		now:           time.Now,
	}
}

func (h *handler) routes() http.Handler {
	mux := http.NewServeMux()

	// Calculator endpoints, JSON in and JSON out.
	mux.HandleFunc("/api/projection", serveCalculator(h, "server.handleProjection", "projection", false, h.computeProjection))
	mux.HandleFunc("/api/portfolio", serveCalculator(h, "server.handlePortfolio", "portfolio", false, h.computePortfolio))
	mux.HandleFunc("/api/mortgage", serveCalculator(h, "server.handleMortgage", "mortgage", true, h.computeMortgage))
	mux.HandleFunc("/api/mortgage/years-remaining", serveCalculator(h, "server.handleYearsRemaining", "years-remaining", false, h.computeYearsRemaining))
	mux.HandleFunc("/api/borrowing-capacity", serveCalculator(h, "server.handleBorrowing", "borrowing", false, h.computeBorrowing))
	mux.HandleFunc("/api/negative-gearing", serveCalculator(h, "server.handleNegativeGearing", "negative-gearing", false, h.computeNegativeGearing))

	// Reference data.
	mux.HandleFunc("/api/tax", h.handleTax)
	mux.HandleFunc("/api/depreciation", h.handleDepreciation)

	// Scenario file upload and export.
	mux.HandleFunc("/api/forecast", h.handleForecast)
	mux.HandleFunc("/api/export", h.handleConfigExport)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

// errBadRequest marks compute failures caused by the request rather than the
// server.
var errBadRequest = errors.New("bad request")

// serveCalculator decodes a JSON request, validates it and serves the computed
// response, consulting the cache first. Responses of dated endpoints depend on
// today's date, so the date is part of their cache key.
func serveCalculator[Req any](h *handler, op, endpoint string, dated bool, compute func(*http.Request, Req, time.Time) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		start := time.Now()
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
				return
			}
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
			return
		}

		today := h.today()
		scope := endpoint + "?" + r.URL.RawQuery
		if dated {
			scope += "@" + today.Format(datetime.DateLayout)
		}
		key := cache.Key(scope, body)
		if cached, ok := h.cacheGet(r.Context(), key, op); ok {
			h.writeRaw(w, http.StatusOK, cached, "HIT")
			return
		}

		var req Req
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
			return
		}

		if err := validation.Struct(req); err != nil {
			h.respondValidation(w, err, op)
			return
		}

		result, err := compute(r, req, today)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, errBadRequest) {
				status = http.StatusBadRequest
			}
			h.respondErrorWithOp(w, status, err.Error(), op)
			return
		}

		payload, err := json.Marshal(result)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode response: %v", err), op)
			return
		}
		payload = append(payload, '\n')

		h.cacheSet(r.Context(), key, payload, op)

		h.logger.Info("calculation served",
			zap.String("op", op),
			zap.Duration("duration", time.Since(start)),
		)

		h.writeRaw(w, http.StatusOK, payload, "MISS")
	}
}

// today is the default start date for calculations that need one.
func (h *handler) today() time.Time {
	return datetime.StartOfDay(h.now())
}

func (h *handler) cacheGet(ctx context.Context, key, op string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	val, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("cache lookup failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return nil, false
	}
	return val, ok
}

func (h *handler) cacheSet(ctx context.Context, key string, val []byte, op string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, key, val); err != nil {
		h.logger.Warn("cache store failed",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

type portfolioResponse struct {
	Years        []portfolio.YearSnapshot `json:"years"`
	Acquisitions []portfolio.Acquisition  `json:"acquisitions"`
	Properties   []portfolio.Property     `json:"properties"`
}

type mortgageResponse struct {
	Repayment loans.Result   `json:"repayment"`
	Schedule  []loans.Period `json:"schedule,omitempty"`
}

type borrowingResponse struct {
	BorrowingCapacity float64 `json:"borrowingCapacity"`
	AssessableIncome  float64 `json:"assessableIncome"`
}

func (h *handler) computeProjection(_ *http.Request, req validation.ProjectionRequest, _ time.Time) (any, error) {
	return projection.Project(config.ProjectionInput(req)), nil
}

func (h *handler) computePortfolio(_ *http.Request, req validation.PortfolioRequest, _ time.Time) (any, error) {
	config.AssignPropertyIDs(&req)
	result := portfolio.SimulateDetailed(config.PortfolioProperties(req), config.PortfolioOptions(req))
	for _, acq := range result.Acquisitions {
		h.logger.Debug("property acquired",
			zap.String("op", "server.handlePortfolio"),
			zap.String("property", acq.ID),
			zap.Int("year", acq.Year),
			zap.Float64("deposit", acq.Deposit),
		)
	}
	return portfolioResponse{
		Years:        result.Years,
		Acquisitions: result.Acquisitions,
		Properties:   result.Properties,
	}, nil
}

func (h *handler) computeMortgage(r *http.Request, req validation.MortgageRequest, today time.Time) (any, error) {
	in, err := config.MortgageInput(req, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	resp := mortgageResponse{Repayment: loans.Calculate(in)}
	if withSchedule, _ := strconv.ParseBool(r.URL.Query().Get("schedule")); withSchedule {
		resp.Schedule = loans.Schedule(in)
	}
	return resp, nil
}

type yearsRemainingResponse struct {
	YearsRemaining float64 `json:"yearsRemaining"`
	Capped         bool    `json:"capped"`
}

func (h *handler) computeYearsRemaining(_ *http.Request, req validation.YearsRemainingRequest, _ time.Time) (any, error) {
	years := config.YearsRemaining(req)
	return yearsRemainingResponse{
		YearsRemaining: years,
		Capped:         years*constants.MonthsPerYear >= loans.MaxRemainingMonths,
	}, nil
}

func (h *handler) computeBorrowing(_ *http.Request, req validation.BorrowingRequest, _ time.Time) (any, error) {
	in := config.BorrowingInput(req)
	return borrowingResponse{
		BorrowingCapacity: borrowing.Estimate(in),
		AssessableIncome:  borrowing.AssessableIncome(in),
	}, nil
}

func (h *handler) computeNegativeGearing(_ *http.Request, req validation.NegativeGearingRequest, _ time.Time) (any, error) {
	return gearing.Calculate(config.NegativeGearingInput(req)), nil
}

type taxResponse struct {
	Income        float64 `json:"income"`
	Tax           float64 `json:"tax"`
	MarginalRate  float64 `json:"marginalRate"`
	EffectiveRate float64 `json:"effectiveRate"`
}

func (h *handler) handleTax(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	income, err := strconv.ParseFloat(r.URL.Query().Get("income"), 64)
	if err != nil || income < 0 {
		h.respondValidation(w, validation.Errors{{
			Field:   "income",
			Tag:     "gte",
			Message: "must be a number of at least 0",
		}}, "server.handleTax")
		return
	}

	h.writeJSON(w, http.StatusOK, taxResponse{
		Income:        income,
		Tax:           tax.Calculate(income),
		MarginalRate:  tax.MarginalRate(income),
		EffectiveRate: tax.EffectiveRate(income),
	})
}

func (h *handler) handleDepreciation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	propertyType := gearing.PropertyType(r.URL.Query().Get("propertyType"))
	if propertyType == "" {
		schedules := make(map[gearing.PropertyType][]float64)
		for _, p := range gearing.PropertyTypes() {
			schedules[p] = gearing.DepreciationSchedule(p)
		}
		h.writeJSON(w, http.StatusOK, schedules)
		return
	}
	if !propertyType.Valid() {
		h.respondValidation(w, validation.Errors{{
			Field:   "propertyType",
			Tag:     "property_type",
			Message: "must be one of Apartment, Townhouse, House, Dual Key",
		}}, "server.handleDepreciation")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string][]float64{
		string(propertyType): gearing.DepreciationSchedule(propertyType),
	})
}

type forecastResponse struct {
	Scenarios  []string            `json:"scenarios"`
	Results    []forecast.Forecast `json:"results"`
	CSV        string              `json:"csv"`
	Warnings   []string            `json:"warnings,omitempty"`
	Duration   string              `json:"duration"`
	ConfigYAML string              `json:"configYaml,omitempty"`
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleForecast"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err))
		return
	}

	h.runForecast(w, buf.Bytes(), start, "server.handleForecast")
}

func (h *handler) runForecast(w http.ResponseWriter, configBytes []byte, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()

	today := h.today()
	results, err := forecast.GetForecastWithStart(h.logger, *cfg, today)
	if err != nil {
		if _, ok := validation.AsErrors(err); ok {
			h.respondValidation(w, err, op)
			return
		}
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute forecast: %v", err), op)
		return
	}

	csvData, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	elapsed := time.Since(start)

	response := forecastResponse{
		Scenarios:  extractScenarioNames(results),
		Results:    results,
		CSV:        csvData,
		Warnings:   warnings,
		Duration:   elapsed.String(),
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "scenarios"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

type validationResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields"`
}

func (h *handler) respondValidation(w http.ResponseWriter, err error, op string) {
	verrs, ok := validation.AsErrors(err)
	if !ok {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.logger.Info("request rejected",
		zap.String("op", op),
		zap.Strings("fields", verrs.Fields()),
	)

	h.writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
		Error:  err.Error(),
		Fields: verrs,
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondErrorWithOp(w, status, msg, "server.handleForecast")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeRaw(w http.ResponseWriter, status int, payload []byte, cacheStatus string) {
	w.Header().Set("Content-Type", "application/json")
	if h.cache != nil {
		w.Header().Set("X-Cache", cacheStatus)
	}
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

func extractScenarioNames(results []forecast.Forecast) []string {
	names := make([]string, 0, len(results))
	for _, scenario := range results {
		names = append(names, scenario.Name)
	}
	return names
}
