package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roxaf/stockmatch/internal/audit"
	"github.com/roxaf/stockmatch/internal/export"
	"github.com/roxaf/stockmatch/internal/logging"
	"github.com/roxaf/stockmatch/internal/match"
	"github.com/roxaf/stockmatch/internal/table"
)

// Upload kinds accepted by handleUpload.
const (
	kindStocklot = "stocklot"
	kindNeeds    = "needs"
)

var errTablesNotLoaded = errors.New("upload both files first: stocklot and client needs")

// uploadResponse describes a parsed upload back to the operator, including
// which columns the keyword resolver picked for each role so header problems
// surface before any match is attempted.
type uploadResponse struct {
	Kind     string            `json:"kind"`
	FileName string            `json:"fileName"`
	Columns  []string          `json:"columns"`
	Rows     int               `json:"rows"`
	Roles    map[string]string `json:"roles"`
}

// handleUpload parses an uploaded spreadsheet and replaces the held table of
// the given kind.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != kindStocklot && kind != kindNeeds {
		s.respondError(w, r, fmt.Errorf("unknown upload kind %q", kind), http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		s.respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	t, err := table.Read(header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.setTable(kind, t)

	logging.FromContext(r.Context()).Info("table uploaded",
		"kind", kind,
		"file", header.Filename,
		"columns", len(t.Columns),
		"rows", t.RowCount(),
	)

	writeJSON(w, uploadResponse{
		Kind:     kind,
		FileName: header.Filename,
		Columns:  t.Columns,
		Rows:     t.RowCount(),
		Roles:    s.resolvedRoles(t),
	})
}

// tableStatus summarizes one held upload for handleStatus.
type tableStatus struct {
	Loaded  bool              `json:"loaded"`
	Name    string            `json:"name,omitempty"`
	Columns []string          `json:"columns,omitempty"`
	Rows    int               `json:"rows,omitempty"`
	Roles   map[string]string `json:"roles,omitempty"`
}

// handleStatus reports which tables are loaded and how their columns
// resolved.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stocklot, needs := s.tables()
	writeJSON(w, map[string]tableStatus{
		kindStocklot: s.statusOf(stocklot),
		kindNeeds:    s.statusOf(needs),
	})
}

// handleReset drops both held tables so the operator can start over.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.resetTables()
	logging.FromContext(r.Context()).Info("tables reset")
	writeJSON(w, map[string]string{"status": "reset"})
}

// handleMatchManual runs a single-client match and responds with the xlsx
// attachment.
func (s *Server) handleMatchManual(w http.ResponseWriter, r *http.Request) {
	stocklot, needs := s.tables()
	if stocklot == nil || needs == nil {
		s.respondError(w, r, errTablesNotLoaded, http.StatusConflict)
		return
	}

	client := r.URL.Query().Get("client")
	if client == "" {
		client = r.PostFormValue("client")
	}
	if client == "" {
		s.respondError(w, r, errors.New("missing client name"), http.StatusBadRequest)
		return
	}

	res, err := s.engine.MatchClient(stocklot, needs, client)
	s.recordRun(r, audit.Run{
		Action: audit.ActionManualMatch,
		Client: client,
		Files:  resultFiles(res),
		Rows:   resultRows(res),
		Error:  errText(err),
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if res.Empty() {
		s.respondError(w, r, fmt.Errorf("no matching stocklot rows for client %q", client), http.StatusNotFound)
		return
	}

	s.serveFile(w, r, export.ResultFile(res), export.ContentTypeXLSX)
}

// handleMatchPriority runs the all-clients-by-priority match and responds
// with a zip archive of every non-empty result.
func (s *Server) handleMatchPriority(w http.ResponseWriter, r *http.Request) {
	stocklot, needs := s.tables()
	if stocklot == nil || needs == nil {
		s.respondError(w, r, errTablesNotLoaded, http.StatusConflict)
		return
	}

	batch, err := s.engine.MatchAllByPriority(stocklot, needs)
	s.recordRun(r, audit.Run{
		Action:  audit.ActionPriorityMatch,
		Files:   batchFiles(batch),
		Rows:    batchRows(batch),
		Skipped: batchSkips(batch),
		Error:   errText(err),
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if len(batch.Results) == 0 {
		writeJSON(w, map[string]any{
			"files":   0,
			"skipped": batch.Skipped,
		})
		return
	}

	name := fmt.Sprintf("ROXAF-priority-%s.zip", time.Now().Format("2006-01-02"))
	archive := export.NamedFile{
		Name:    name,
		Produce: func() ([]byte, error) { return export.Archive(export.BatchFiles(batch)) },
	}
	w.Header().Set("X-Skipped-Clients", fmt.Sprint(len(batch.Skipped)))
	s.serveFile(w, r, archive, export.ContentTypeZip)
}

// handlePreview lists (client, bucket, row count) for a would-be batch run.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	stocklot, needs := s.tables()
	if stocklot == nil || needs == nil {
		s.respondError(w, r, errTablesNotLoaded, http.StatusConflict)
		return
	}

	entries, err := s.engine.PreviewAvailability(stocklot, needs)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if entries == nil {
		entries = []match.PreviewEntry{}
	}
	writeJSON(w, map[string]any{"entries": entries})
}

// handleHistory lists recent match runs. The list is empty when no database
// is configured.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	runs, err := s.recorder.Recent(r.Context(), 50)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []audit.Run{}
	}
	writeJSON(w, map[string]any{"runs": runs})
}

// serveFile delivers a produced file as a download attachment.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, nf export.NamedFile, contentType string) {
	data, err := nf.Produce()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nf.Name))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Write(data)
}

// recordRun writes a run entry, logging (not failing) on recorder errors.
func (s *Server) recordRun(r *http.Request, run audit.Run) {
	if err := s.recorder.Record(r.Context(), run); err != nil {
		logging.FromContext(r.Context()).Error("failed to record match run", "error", err)
	}
}

// statusFor picks the HTTP status for an engine error: lookup misses are
// 404s, schema problems are the operator's upload to fix.
func statusFor(err error) int {
	var noReqs *match.NoRequirementsError
	if errors.As(err, &noReqs) {
		return http.StatusNotFound
	}
	var schema *match.SchemaError
	if errors.As(err, &schema) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (s *Server) statusOf(t *table.Table) tableStatus {
	if t == nil {
		return tableStatus{}
	}
	return tableStatus{
		Loaded:  true,
		Name:    t.Name,
		Columns: t.Columns,
		Rows:    t.RowCount(),
		Roles:   s.resolvedRoles(t),
	}
}

// resolvedRoles previews keyword resolution for an uploaded table using the
// engine's configured keyword sets.
func (s *Server) resolvedRoles(t *table.Table) map[string]string {
	rm := match.Resolve(t.Columns, s.engine.Keywords(),
		match.RoleClient, match.RoleItemFamily, match.RoleWeight, match.RoleWidth, match.RolePriority)
	out := make(map[string]string, len(rm))
	for role, col := range rm {
		out[string(role)] = col
	}
	return out
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func resultFiles(res *match.Result) int {
	if res == nil || res.Empty() {
		return 0
	}
	return 1
}

func resultRows(res *match.Result) int {
	if res == nil {
		return 0
	}
	return res.Rows.RowCount()
}

func batchFiles(batch *match.BatchResult) int {
	if batch == nil {
		return 0
	}
	return len(batch.Results)
}

func batchRows(batch *match.BatchResult) int {
	if batch == nil {
		return 0
	}
	total := 0
	for _, res := range batch.Results {
		total += res.Rows.RowCount()
	}
	return total
}

func batchSkips(batch *match.BatchResult) int {
	if batch == nil {
		return 0
	}
	return len(batch.Skipped)
}
