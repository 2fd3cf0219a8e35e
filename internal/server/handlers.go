package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// ShortlistResponse is the body of GET /jobs/{id}/shortlist
type ShortlistResponse struct {
	JobID      int64                   `json:"job_id"`
	Threshold  float64                 `json:"threshold"`
	Candidates []types.ScoredCandidate `json:"candidates"`
	Total      int                     `json:"total"`
}

// ScoresResponse is the body of GET /jobs/{id}/scores
type ScoresResponse struct {
	JobID     int64                  `json:"job_id"`
	Threshold float64                `json:"threshold"`
	Entries   []types.ShortlistEntry `json:"entries"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRank ranks the applicants of a job and stores their scores
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathJobID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.ranker.RankCandidates(r.Context(), jobID)
	if err != nil {
		s.logger.Error("ranking failed", zap.Int64("job_id", jobID), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusNotFound
	}
	s.jsonResponse(w, status, result)
}

// handleRankStream ranks a job and streams stage progress via SSE, ending with a
// "result" or "error" event
func (s *Server) handleRankStream(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathJobID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	stream, err := newRankStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ranker := s.ranker.WithProgress(func(event pipeline.ProgressEvent) {
		if err := stream.step(event); err != nil {
			s.logger.Warn("failed to write step event", zap.String("step", event.Step), zap.Error(err))
		}
	})

	result, err := ranker.RankCandidates(r.Context(), jobID)
	if err != nil {
		s.logger.Error("streamed ranking failed", zap.Int64("job_id", jobID), zap.Error(err))
		stream.fail(err.Error())
		return
	}
	if !result.Success {
		stream.fail(result.Message)
		return
	}

	if err := stream.result(result); err != nil {
		s.logger.Warn("failed to write result event", zap.Error(err))
	}
}

// handleShortlist re-ranks a job and returns the candidates at or above the threshold
func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathJobID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	threshold, err := s.queryThreshold(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	candidates, err := s.ranker.GetShortlisted(r.Context(), jobID, threshold)
	if err != nil {
		s.logger.Error("shortlist failed", zap.Int64("job_id", jobID), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ShortlistResponse{
		JobID:      jobID,
		Threshold:  threshold,
		Candidates: candidates,
		Total:      len(candidates),
	})
}

// handleScores lists stored scores without re-ranking
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathJobID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	threshold, err := s.queryThreshold(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	entries, err := s.ranker.Store.ListShortlisted(r.Context(), jobID, threshold)
	if err != nil {
		s.logger.Error("listing scores failed", zap.Int64("job_id", jobID), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), "failed to list scores")
		return
	}
	if entries == nil {
		entries = []types.ShortlistEntry{}
	}

	s.jsonResponse(w, http.StatusOK, ScoresResponse{JobID: jobID, Threshold: threshold, Entries: entries})
}

// pathJobID parses the {id} path value as a positive job ID
func pathJobID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ErrValidation{Field: "id", Message: "job id must be a positive integer"}
	}
	return id, nil
}

// queryThreshold reads ?threshold, falling back to the configured default
func (s *Server) queryThreshold(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("threshold")
	if raw == "" {
		return s.threshold, nil
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil || threshold < 0 || threshold > 1 {
		return 0, &ErrValidation{Field: "threshold", Message: "threshold must be a number between 0 and 1"}
	}
	return threshold, nil
}
