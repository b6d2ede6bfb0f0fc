package api

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"text2phenotype.com/postagger/pipeline"
)

// Request serves the tagging pipeline over HTTP: the POST body is the text to
// tag, one sentence per line, and the response is the JSON tagging result.
type Request struct {
	Pipeline pipeline.Pipeline
	// MaxBodyBytes limits the request body; zero means no limit.
	MaxBodyBytes int64
}

func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		logger.Error().Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	body := r.Body
	if req.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, req.MaxBodyBytes)
	}
	msg, err := io.ReadAll(body)
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	tid := r.URL.Query().Get("tid")
	if tid == "" {
		tid = uuid.NewString()
	}
	request := pipeline.Request{
		Tid:  tid,
		Text: string(msg),
	}
	logger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp, ok := <-req.Pipeline(request)
	if !ok {
		logger.Error().Int("status", http.StatusInternalServerError).Msg("Pipeline returned no response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(resp))
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}
