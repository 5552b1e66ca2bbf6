package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"lodging_query/internal/app"
	"lodging_query/internal/domain"
)

type Handlers struct {
	Q      *app.QueryService
	Stores domain.StoreProvider
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Stats summarizes the dataset currently served.
type Stats struct {
	Generation          uint64         `json:"generation"`
	Count               int            `json:"count"`
	CountByMunicipality map[string]int `json:"countByMunicipality"`
	CountByType         map[string]int `json:"countByType"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/stats", h.stats)
	s.mux.Get("/v1/query", h.query)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	st := h.Stores.Current()
	etag, body := calcETagAndBody(Stats{
		Generation:          st.Generation(),
		Count:               st.Count(),
		CountByMunicipality: st.CountByMunicipality(),
		CountByType:         st.CountByType(),
	})
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "stats unavailable")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write stats body")
	}
}

// query runs one protocol command and returns the reply as plain text,
// exactly as a TCP client would see it.
func (h *Handlers) query(w http.ResponseWriter, r *http.Request) {
	cmd := r.URL.Query().Get("cmd")
	if cmd == "" {
		writeProblem(w, http.StatusBadRequest, "Missing command", "cmd query parameter is required")
		return
	}
	reply := h.Q.Execute(r.Context(), cmd)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Command", reply.Op.String())
	w.Header().Set("X-Outcome", reply.Outcome)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(reply.Text + "\n")); err != nil {
		log.Error().Err(err).Msg("failed to write query body")
	}
}
