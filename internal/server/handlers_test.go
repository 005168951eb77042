package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincomply/sarforge/internal/common"
	"github.com/fincomply/sarforge/internal/fincen"
	"github.com/fincomply/sarforge/internal/model"
	"github.com/fincomply/sarforge/internal/pdfgen"
	"github.com/fincomply/sarforge/internal/service"
)

// stubStore is an in-memory RecordStore for handler tests.
type stubStore struct {
	records map[string]*model.SARRecord
	order   []string
	pingErr error
}

func newStubStore(records ...*model.SARRecord) *stubStore {
	s := &stubStore{records: make(map[string]*model.SARRecord)}
	for _, rec := range records {
		s.records[rec.ID] = rec
		s.order = append(s.order, rec.ID)
	}
	return s
}

func (s *stubStore) SaveRecord(_ context.Context, rec *model.SARRecord) error {
	if _, ok := s.records[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *stubStore) GetRecord(_ context.Context, id string) (*model.SARRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrRecordNotFound, id)
	}
	return rec, nil
}

func (s *stubStore) SearchRecords(_ context.Context, filter service.RecordFilter) (*service.RecordPage, error) {
	page := &service.RecordPage{Limit: filter.Limit, Offset: filter.Offset}
	for _, id := range s.order {
		rec := s.records[id]
		if filter.Query != "" && !strings.Contains(rec.Str(model.FieldInstitutionName), filter.Query) {
			continue
		}
		page.Total++
		page.Records = append(page.Records, *rec)
	}
	return page, nil
}

func (s *stubStore) CountRecords(_ context.Context) (int, error) { return len(s.records), nil }
func (s *stubStore) DeleteRecord(_ context.Context, id string) error {
	delete(s.records, id)
	return nil
}
func (s *stubStore) Migrate(_ context.Context) error { return nil }
func (s *stubStore) Ping(_ context.Context) error    { return s.pingErr }
func (s *stubStore) Close() error                    { return nil }

func testServer(t *testing.T, store service.RecordStore) *Server {
	t.Helper()
	return NewServer(Options{
		Store:  store,
		XMLGen: fincen.NewBuilder(),
		PDFGen: pdfgen.NewGenerator(nil),
	})
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func sampleRecord() *model.SARRecord {
	return &model.SARRecord{ID: "R1", Fields: map[string]any{
		model.FieldInstitutionName:  "First National Bank",
		model.FieldSuspectLastName:  "Smith",
		model.FieldSuspectFirstName: "John",
		model.FieldTotalAmount:      float64(15000),
		model.FieldActivityDate:     "2024-01-10",
	}}
}

func TestHandleHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := testServer(t, newStubStore())
		w := doRequest(t, srv, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unhealthy", func(t *testing.T) {
		store := newStubStore()
		store.pingErr = fmt.Errorf("connection lost")
		srv := testServer(t, store)
		w := doRequest(t, srv, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandleListRecords(t *testing.T) {
	srv := testServer(t, newStubStore(sampleRecord()))

	w := doRequest(t, srv, http.MethodGet, "/api/records")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Records []recordSummary `json:"records"`
		Total   int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Records, 1)
	assert.Equal(t, "R1", body.Records[0].ID)
	assert.Equal(t, "John Smith", body.Records[0].SuspectName)
	assert.Equal(t, "$15000.00", body.Records[0].Amount)
}

func TestHandleGetRecord(t *testing.T) {
	srv := testServer(t, newStubStore(sampleRecord()))

	t.Run("found", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/records/R1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "First National Bank")
	})

	t.Run("not found", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/records/missing")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleDownloadXML(t *testing.T) {
	srv := testServer(t, newStubStore(sampleRecord()))

	w := doRequest(t, srv, http.MethodGet, "/api/records/R1/xml")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "fincen8300_R1_")
	assert.Contains(t, w.Body.String(), "EFilingBatchXML")
	assert.Contains(t, w.Body.String(), `TotalAmount="15000"`)
}

func TestHandleDownloadPDF(t *testing.T) {
	srv := testServer(t, newStubStore(sampleRecord()))

	w := doRequest(t, srv, http.MethodGet, "/api/records/R1/pdf")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sar_R1_")
	assert.Equal(t, "%PDF-", w.Body.String()[:5])
}

func TestHandleDownloadXML_NotFound(t *testing.T) {
	srv := testServer(t, newStubStore())

	w := doRequest(t, srv, http.MethodGet, "/api/records/missing/xml")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleIndex(t *testing.T) {
	srv := testServer(t, newStubStore())

	w := doRequest(t, srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Suspicious Activity Reports")
}
