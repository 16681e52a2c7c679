package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"
)

// FrameUpdate is a single progressive update sent via SSE
type FrameUpdate struct {
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Progress  ProgressResponse `json:"progress"`
}

// handleStream sends the film as Server-Sent Events: a "frame" event every
// interval, then a "complete" event once the current generation is done, or an
// "error" event if the render failed.
// A settings update during the stream keeps it open for the new generation.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		done := s.scheduler.Done()
		if err := s.sendFrame(w); err != nil {
			s.logger.Debugf("stream closed: %v", err)
			return
		}

		select {
		case <-done:
			// Final frame of this generation
			if err := s.sendFrame(w); err != nil {
				return
			}
			s.sendSSEEvent(w, "complete", fmt.Sprintf(`{"generation":%d}`, s.scheduler.Settings().Generation))
			return
		case <-s.scheduler.Failed():
			data, _ := json.Marshal(map[string]string{"error": s.scheduler.Err().Error()})
			s.sendSSEEvent(w, "error", string(data))
			return
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *Server) sendFrame(w http.ResponseWriter) error {
	imageData, err := imageToBase64PNG(s.scheduler.Film().Image())
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	data, err := json.Marshal(FrameUpdate{
		ImageData: imageData,
		Progress:  s.progress(),
	})
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "frame", string(data))
}

// sendSSEEvent writes one event and flushes it to the client
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// imageToBase64PNG converts an image to a base64 encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
