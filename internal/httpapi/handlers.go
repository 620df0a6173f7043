package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"ragqa/internal/domain"
	"ragqa/internal/retrieval"
)

var validate = validator.New()

type queryRequest struct {
	Question string `json:"question" validate:"required"`
}

type queryResponse struct {
	Answer         string              `json:"answer"`
	Sources        []retrieval.Passage `json:"sources,omitempty"`
	LatencySeconds float64             `json:"latency_seconds"`
}

type retrieveRequest struct {
	Question string `json:"question" validate:"required"`
	TopK     int    `json:"top_k" validate:"gte=0,lte=100"`
}

type retrieveResponse struct {
	Results     []string            `json:"results"`
	Passages    []retrieval.Passage `json:"passages"`
	EmptyCorpus bool                `json:"empty_corpus"`
}

type uploadResponse struct {
	Message  string                 `json:"message"`
	Document domain.IngestionResult `json:"document"`
}

func (a *api) handleRoot(w http.ResponseWriter, _ *http.Request) {
	a.ok(w, map[string]string{"status": "API is running"})
}

func (a *api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	a.ok(w, map[string]any{"status": "ok", "corpus": a.svc.Stats()})
}

func (a *api) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		a.writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	res, err := a.svc.Upload(r.Context(), header.Filename, file)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.ok(w, uploadResponse{Message: "Document ingested successfully", Document: res})
}

func (a *api) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !a.decode(w, r, &req) {
		return
	}
	ans, err := a.svc.Ask(r.Context(), req.Question)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.ok(w, queryResponse{Answer: ans.Text, Sources: ans.Passages, LatencySeconds: ans.Latency.Seconds()})
}

func (a *api) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.svc.Search(r.Context(), req.Question, req.TopK)
	if err != nil {
		a.fail(w, err)
		return
	}
	passages := res.Passages
	if passages == nil {
		passages = []retrieval.Passage{}
	}
	a.ok(w, retrieveResponse{Results: res.Texts(), Passages: passages, EmptyCorpus: res.EmptyCorpus})
}

// decode reads a JSON body into dst and validates it, writing a 400 on failure.
func (a *api) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			a.writeError(w, http.StatusBadRequest, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
			return false
		}
		a.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
