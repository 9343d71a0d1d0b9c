package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/news-agent/internal/logger"
	"github.com/jonathan/news-agent/internal/observability"
	"github.com/jonathan/news-agent/internal/pipeline"
	"github.com/jonathan/news-agent/internal/types"
)

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// BatchRequest is the body of POST /batch. URLs may be given as a list, as a
// newline separated text blob, or both; the list comes first.
type BatchRequest struct {
	URLs []string `json:"urls,omitempty"`
	Text string   `json:"text,omitempty"`
}

// Blob joins both forms into the newline separated input the pipeline expects.
func (r BatchRequest) Blob() string {
	parts := append([]string{}, r.URLs...)
	if r.Text != "" {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, "\n")
}

// decode reads a JSON body into dst.
func decode(r *http.Request, w http.ResponseWriter, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrBadRequestBody{Cause: err}
	}
	return nil
}

// handleAnalyze fetches and analyzes one article and returns the item as JSON.
// A page that fails to load is still a 200; the failure is in the item.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decode(r, w, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	item := s.pipeline.Single(r.Context(), req.URL)
	s.jsonResponse(w, http.StatusOK, item)
}

// handleBatch processes a list of URLs and streams one SSE item event per URL
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decode(r, w, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	blob := req.Blob()
	if len(pipeline.ParseURLList(blob)) == 0 {
		s.errorResponse(w, http.StatusBadRequest, observability.NoURLsMessage)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	items := s.streamingPipeline(r, sse).Batch(r.Context(), blob)
	sse.WriteComplete(CompleteEvent{
		RunID:   RequestID(r.Context()),
		Status:  completeStatus(r),
		Count:   len(items),
		Message: observability.BatchCompleteMessage,
	})
}

// handleCrawl crawls a homepage and streams one SSE item event per accepted article
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req types.CrawlRequest
	if err := decode(r, w, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	items, err := s.streamingPipeline(r, sse).Crawl(r.Context(), req)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	message := observability.NoArticlesMessage
	if len(items) > 0 {
		message = fmt.Sprintf("Found %d articles.", len(items))
	}
	sse.WriteComplete(CompleteEvent{
		RunID:   RequestID(r.Context()),
		Status:  completeStatus(r),
		Count:   len(items),
		Message: message,
	})
}

// completeStatus reports "cancelled" when the client went away mid-run.
func completeStatus(r *http.Request) string {
	if r.Context().Err() != nil {
		return "cancelled"
	}
	return "complete"
}

// streamingPipeline returns a pipeline that writes each finished item to sse.
// Item and complete events share the request ID as their run ID.
func (s *Server) streamingPipeline(r *http.Request, sse *SSEWriter) *pipeline.Pipeline {
	requestID := RequestID(r.Context())
	return s.pipeline.WithRunID(requestID).WithProgress(func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent(EventItem, event); err != nil {
			s.log.Warn("Error writing SSE event",
				logger.String("request_id", requestID),
				logger.Error(err))
		}
	})
}
