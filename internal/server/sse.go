package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Event names of a ranking stream
const (
	eventStep   = "step"
	eventResult = "result"
	eventError  = "error"
)

// errStreamingUnsupported is returned when the ResponseWriter cannot flush
var errStreamingUnsupported = errors.New("streaming not supported")

// rankStream writes the server-sent events of one streamed ranking run.
// Event ids count up from 1 so a client can tell whether it missed a stage.
type rankStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	nextID  int
}

// newRankStream sends the event-stream headers
func newRankStream(w http.ResponseWriter) (*rankStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &rankStream{w: w, flusher: flusher, nextID: 1}, nil
}

// step forwards one pipeline progress event
func (s *rankStream) step(event pipeline.ProgressEvent) error {
	return s.send(eventStep, event)
}

// result sends the final RankResult
func (s *rankStream) result(result *types.RankResult) error {
	return s.send(eventResult, result)
}

// fail sends the terminal error event; write errors are dropped since the stream is ending
func (s *rankStream) fail(message string) {
	_ = s.send(eventError, map[string]string{"error": message})
}

func (s *rankStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	var buf bytes.Buffer
	buf.WriteString("id: " + strconv.Itoa(s.nextID) + "\n")
	buf.WriteString("event: " + event + "\n")
	buf.WriteString("data: ")
	buf.Write(data)
	buf.WriteString("\n\n")

	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return err
	}
	s.nextID++
	s.flusher.Flush()
	return nil
}
