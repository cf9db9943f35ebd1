package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"workshopzones/internal/logging"
	"workshopzones/internal/model"
	"workshopzones/internal/service"
)

const maxBodyBytes = 8 << 20

// AnalyzeRequest is the body of POST /v1/workshops/{groupId}/analysis
type AnalyzeRequest struct {
	Respondents []model.RosterRecord `json:"respondents"`
}

// AnalysisHandler handles workshop analysis endpoints
type AnalysisHandler struct {
	analysisSvc *service.AnalysisService
	logger      *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisSvc *service.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{analysisSvc: analysisSvc, logger: logger.Named("rest")}
}

// Analyze handles POST /v1/workshops/{groupId}/analysis
//
//	@Summary	Classify a workshop roster
//	@Tags		analysis
//	@Accept		json
//	@Produce	json
//	@Param		groupId	path		string			true	"Workshop id"
//	@Param		body	body		AnalyzeRequest	true	"Roster"
//	@Success	200		{object}	model.GroupAnalysisResult
//	@Failure	400		{object}	map[string]string
//	@Failure	413		{object}	map[string]string
//	@Router		/v1/workshops/{groupId}/analysis [post]
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var req AnalyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.analysisSvc.Analyze(r.Context(), groupID, req.Respondents)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Latest handles GET /v1/workshops/{groupId}/analysis
//
//	@Summary	Latest stored group reading
//	@Tags		analysis
//	@Produce	json
//	@Param		groupId	path		string	true	"Workshop id"
//	@Success	200		{object}	model.AnalysisSnapshot
//	@Failure	404		{object}	map[string]string
//	@Router		/v1/workshops/{groupId}/analysis [get]
func (h *AnalysisHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.analysisSvc.Latest(r.Context(), mux.Vars(r)["groupId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// Classify handles POST /v1/respondents/classify
//
//	@Summary	Classify a single respondent
//	@Tags		analysis
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.RosterRecord	true	"Respondent"
//	@Success	200		{object}	model.RespondentResult
//	@Failure	400		{object}	map[string]string
//	@Router		/v1/respondents/classify [post]
func (h *AnalysisHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var record model.RosterRecord
	if err := decodeBody(w, r, &record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.analysisSvc.Classify(record))
}

// Instrument handles GET /v1/instrument
//
//	@Summary	Questionnaire items and scale
//	@Tags		instrument
//	@Produce	json
//	@Success	200	{object}	model.Instrument
//	@Router		/v1/instrument [get]
func (h *AnalysisHandler) Instrument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.analysisSvc.Instrument())
}

func (h *AnalysisHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingGroupID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRosterTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrSnapshotNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logging.FromContext(r.Context(), h.logger).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
