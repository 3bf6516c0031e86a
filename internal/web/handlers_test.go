package web

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/roxaf/stockmatch/internal/config"
	"github.com/roxaf/stockmatch/internal/match"
)

const stocklotCSV = "Lot,Item Family,Grammage,Laize\n" +
	"L1,Kraft,80,100\n" +
	"L2,Kraft,200,100\n"

const needsCSV = "Client,Item Family,Grammage,Laize,Priority\n" +
	"Acme,Kraft,75,90,urgent\n" +
	"Acme,Kraft,90,110,urgent\n" +
	"Beta,Kraft,80,100,less urgent\n"

func newTestServer() *Server {
	cfg := &config.Config{}
	cfg.Server.RequestTimeout = time.Minute
	cfg.Upload.MaxFileSize = 10 << 20
	return NewServer(match.NewEngine(nil, nil), nil, cfg)
}

// upload posts a file to /api/upload/{kind} and fails the test on a
// non-200 response.
func upload(t *testing.T, s *Server, kind, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload/"+kind, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload %s: status = %d, body = %s", kind, rec.Code, rec.Body.String())
	}
	return rec
}

func loadBoth(t *testing.T, s *Server) {
	t.Helper()
	upload(t, s, kindStocklot, "stocklot.csv", stocklotCSV)
	upload(t, s, kindNeeds, "needs.csv", needsCSV)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response %q: %v", rec.Body.String(), err)
	}
	return resp.Code
}

func TestHandleUpload_ReportsResolvedRoles(t *testing.T) {
	s := newTestServer()
	rec := upload(t, s, kindNeeds, "needs.csv", needsCSV)

	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Rows != 3 {
		t.Errorf("Rows = %d, want 3", resp.Rows)
	}
	if resp.Roles["client"] != "Client" {
		t.Errorf("Roles[client] = %q, want Client", resp.Roles["client"])
	}
	if resp.Roles["width_attr"] != "Laize" {
		t.Errorf("Roles[width_attr] = %q, want Laize", resp.Roles["width_attr"])
	}
}

func TestHandleUpload_UnknownKind(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/upload/other", strings.NewReader(""))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer()
	upload(t, s, kindStocklot, "stocklot.csv", stocklotCSV)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp map[string]tableStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp[kindStocklot].Loaded || resp[kindStocklot].Rows != 2 {
		t.Errorf("stocklot status = %+v, want loaded with 2 rows", resp[kindStocklot])
	}
	if got := resp[kindStocklot].Roles["item_family"]; got != "Item Family" {
		t.Errorf("stocklot Roles[item_family] = %q, want Item Family", got)
	}
	if resp[kindNeeds].Loaded {
		t.Errorf("needs status = %+v, want not loaded", resp[kindNeeds])
	}
}

func TestHandleMatchManual_BeforeUpload(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/match/manual?client=Acme", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if code := errorCode(t, rec); code != "UPL001" {
		t.Errorf("error code = %s, want UPL001", code)
	}
}

func TestHandleMatchManual_Success(t *testing.T) {
	s := newTestServer()
	loadBoth(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/match/manual?client=Acme", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "Acme-ROXAF-Manual.xlsx") {
		t.Errorf("Content-Disposition = %q, want Acme-ROXAF-Manual.xlsx attachment", got)
	}
	if rec.Body.Len() == 0 {
		t.Error("response body is empty, want xlsx bytes")
	}
}

func TestHandleMatchManual_UnknownClient(t *testing.T) {
	s := newTestServer()
	loadBoth(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/match/manual?client=Ghost", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if code := errorCode(t, rec); code != "REQ001" {
		t.Errorf("error code = %s, want REQ001", code)
	}
}

func TestHandleMatchManual_MissingClientName(t *testing.T) {
	s := newTestServer()
	loadBoth(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/match/manual", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != "REQ002" {
		t.Errorf("error code = %s, want REQ002", code)
	}
}

func TestHandleMatchPriority_Archive(t *testing.T) {
	s := newTestServer()
	loadBoth(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/match/priority", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/zip" {
		t.Errorf("Content-Type = %q, want application/zip", got)
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("response is not a valid zip: %v", err)
	}

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	// Beta's "less urgent" label overlaps into Urgent; three files total.
	want := []string{"Acme-ROXAF-Urgent.xlsx", "Beta-ROXAF-Urgent.xlsx", "Beta-ROXAF-Less Urgent.xlsx"}
	if len(names) != len(want) {
		t.Fatalf("archive entries = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestHandlePreview(t *testing.T) {
	s := newTestServer()
	loadBoth(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/preview", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Entries []match.PreviewEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Entries) != 3 {
		t.Fatalf("entries = %v, want 3 (Acme/Urgent, Beta/Urgent, Beta/Less Urgent)", resp.Entries)
	}
	if e := resp.Entries[0]; e.Client != "Acme" || e.Rows != 1 {
		t.Errorf("entries[0] = %+v, want Acme with 1 row", e)
	}
}

func TestHandleReset(t *testing.T) {
	s := newTestServer()
	loadBoth(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/reset", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/match/manual?client=Acme", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("match after reset: status = %d, want 409", rec.Code)
	}
}

func TestHandleHistory_NoDatabase(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Runs []json.RawMessage `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Runs) != 0 {
		t.Errorf("runs = %v, want empty without a database", resp.Runs)
	}
}
