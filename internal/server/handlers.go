package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fincomply/sarforge/internal/common"
	"github.com/fincomply/sarforge/internal/model"
	"github.com/fincomply/sarforge/internal/normalize"
	"github.com/fincomply/sarforge/internal/service"
)

// recordSummary is the list-view projection of a record.
type recordSummary struct {
	ID           string `json:"id"`
	Institution  string `json:"institution"`
	SuspectName  string `json:"suspect_name"`
	ActivityDate string `json:"activity_date"`
	Amount       string `json:"amount"`
}

func summarize(rec *model.SARRecord) recordSummary {
	norm := normalize.Normalize(rec, time.Now())
	return recordSummary{
		ID:           rec.ID,
		Institution:  rec.Str(model.FieldInstitutionName),
		SuspectName:  norm.DisplayName,
		ActivityDate: rec.Str(model.FieldActivityDate),
		Amount:       norm.DisplayAmount(),
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index", nil)
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListRecords(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 25
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	page, err := s.store.SearchRecords(c.Request.Context(), service.RecordFilter{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "search failed", err)
		return
	}

	summaries := make([]recordSummary, 0, len(page.Records))
	for i := range page.Records {
		summaries = append(summaries, summarize(&page.Records[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"records": summaries,
		"total":   page.Total,
		"limit":   page.Limit,
		"offset":  page.Offset,
	})
}

func (s *Server) handleGetRecord(c *gin.Context) {
	rec, ok := s.fetchRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rec.ID, "fields": rec.Fields})
}

func (s *Server) handleDownloadXML(c *gin.Context) {
	rec, ok := s.fetchRecord(c)
	if !ok {
		return
	}

	out, err := s.xmlGen.Build(normalize.Normalize(rec, time.Now()), rec.ID)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "could not generate document", err)
		return
	}

	filename := fmt.Sprintf("fincen8300_%s_%s.xml", rec.ID, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/xml", out)
}

func (s *Server) handleDownloadPDF(c *gin.Context) {
	rec, ok := s.fetchRecord(c)
	if !ok {
		return
	}

	out, err := s.pdfGen.Generate(normalize.Normalize(rec, time.Now()), rec.ID, s.template)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "could not generate document", err)
		return
	}

	filename := fmt.Sprintf("sar_%s_%s.pdf", rec.ID, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", out)
}

// fetchRecord resolves the :id path parameter. On failure it writes the
// response and returns false.
func (s *Server) fetchRecord(c *gin.Context) (*model.SARRecord, bool) {
	id := c.Param("id")

	rec, err := s.store.GetRecord(c.Request.Context(), id)
	if errors.Is(err, common.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return nil, false
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "record lookup failed", err)
		return nil, false
	}
	return rec, true
}

// fail logs the underlying error and returns a generic message. Detail is
// only exposed to clients in debug mode.
func (s *Server) fail(c *gin.Context, status int, msg string, err error) {
	s.logger.Error(msg, "error", err, "path", c.Request.URL.Path)

	body := gin.H{"error": msg}
	if s.debug {
		body["detail"] = err.Error()
	}
	c.JSON(status, body)
}
