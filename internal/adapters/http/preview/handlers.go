package preview

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/trackboard/internal/domain/progression"
	"github.com/okian/trackboard/internal/domain/records"
	"github.com/okian/trackboard/internal/domain/types"
	"github.com/okian/trackboard/internal/report"
)

// PageHandler serves the rendered report.
type PageHandler struct {
	page []byte
}

// NewPageHandler creates a page handler.
func NewPageHandler(page []byte) *PageHandler {
	return &PageHandler{page: page}
}

// HandlePage handles GET / and 404s every other unmatched path.
func (h *PageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.page)
}

// RecordsHandler answers personal record queries.
type RecordsHandler struct {
	rep report.Report
}

// NewRecordsHandler creates a records handler.
func NewRecordsHandler(rep report.Report) *RecordsHandler {
	return &RecordsHandler{rep: rep}
}

type recordsResponse struct {
	Athlete string            `json:"athlete"`
	Records []types.RecordRow `json:"records"`
}

// HandleRecords handles GET /api/records?athlete=NAME.
func (h *RecordsHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	athlete := strings.TrimSpace(r.URL.Query().Get("athlete"))
	if athlete == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingAthlete)
		return
	}
	set := records.PersonalRecords(athlete, h.rep.Enriched(), h.rep.Policy())
	writeJSON(w, http.StatusOK, recordsResponse{Athlete: athlete, Records: types.NewRecordRows(set)})
}

// ProgressionHandler answers progression queries.
type ProgressionHandler struct {
	rep report.Report
}

// NewProgressionHandler creates a progression handler.
func NewProgressionHandler(rep report.Report) *ProgressionHandler {
	return &ProgressionHandler{rep: rep}
}

// HandleProgression handles GET /api/progression?event=E&athlete=A&athlete=B.
func (h *ProgressionHandler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := progression.Query(q.Get("event"), q["athlete"], h.rep.Enriched())
	if err != nil {
		if errors.Is(err, progression.ErrNoEvent) || errors.Is(err, progression.ErrNoAthletes) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewProgressionResponse(res))
}

// EventsHandler lists the distinct events.
type EventsHandler struct {
	events []string
}

// NewEventsHandler creates an events handler.
func NewEventsHandler(rep report.Report) *EventsHandler {
	return &EventsHandler{events: rep.Events}
}

type eventsResponse struct {
	Events []string `json:"events"`
}

// HandleEvents handles GET /api/events.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, eventsResponse{Events: h.events})
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	runID string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(runID string) *HealthHandler {
	return &HealthHandler{runID: runID}
}

type healthResponse struct {
	Status string `json:"status"`
	RunID  string `json:"run_id"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", RunID: h.runID})
}
