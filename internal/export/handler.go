package export

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inkboard/inkboard/internal/engine"
)

// FrameSource finds the latest frame of a live session.
type FrameSource interface {
	LatestFrame(sessionID string) (*engine.Frame, bool)
}

type Handler struct {
	frames FrameSource
	scale  float64
}

func NewHandler(frames FrameSource, scale float64) *Handler {
	return &Handler{frames: frames, scale: scale}
}

// ExportPNG serves GET /sessions/{sessionId}/frame.png. A "scale" query
// parameter overrides the configured scale.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "image/png", WritePNG)
}

// ExportPDF serves GET /sessions/{sessionId}/frame.pdf.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/pdf", WritePDF)
}

type writeFunc func(w io.Writer, f *engine.Frame, scale float64) error

func (h *Handler) export(w http.ResponseWriter, r *http.Request, contentType string, write writeFunc) {
	sessionID := mux.Vars(r)["sessionId"]
	f, ok := h.frames.LatestFrame(sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	scale := h.scale
	if s := r.URL.Query().Get("scale"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			http.Error(w, "invalid scale", http.StatusBadRequest)
			return
		}
		scale = v
	}

	var buf bytes.Buffer
	if err := write(&buf, f, scale); err != nil {
		if errors.Is(err, ErrEmptyFrame) || errors.Is(err, ErrInvalidScale) || errors.Is(err, ErrFrameTooLarge) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		slog.Error("export frame", "error", err, "session", sessionID)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
