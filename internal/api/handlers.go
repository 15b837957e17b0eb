package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/buildinfo"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/errors"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/observability"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
)

// pipelineRequest is the body of the derivation endpoints. Either Design
// (inline document) or Name (stored design) must be set.
type pipelineRequest struct {
	Design  *design.Design   `json:"design,omitempty"`
	Name    string           `json:"name,omitempty"`
	Options pipeline.Options `json:"options"`
}

// stripsResponse is the body returned by POST /v1/strips.
type stripsResponse struct {
	DesignHash string             `json:"design_hash"`
	Strips     []design.Strip     `json:"strips"`
	Stats      pipeline.Stats     `json:"stats"`
	Cache      pipeline.CacheInfo `json:"cache"`
}

// exportResponse is the body returned by POST /v1/export. Artifacts maps
// group id to the SVG document; groups with no output for the selected pass
// are absent.
type exportResponse struct {
	DesignHash string             `json:"design_hash"`
	Artifacts  map[string]string  `json:"artifacts"`
	Stats      pipeline.Stats     `json:"stats"`
	Cache      pipeline.CacheInfo `json:"cache"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no design store configured"))
		return
	}
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no design store configured"))
		return
	}
	name := chi.URLParam(r, "name")
	d, err := s.store.Get(r.Context(), name)
	observability.Store().OnLoad(r.Context(), name, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handlePutDesign(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no design store configured"))
		return
	}
	name := chi.URLParam(r, "name")

	d, err := design.Read(r.Body)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidDesign, err, "parse design body"))
		return
	}

	err = s.store.Put(r.Context(), name, d)
	observability.Store().OnSave(r.Context(), name, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no design store configured"))
		return
	}
	name := chi.URLParam(r, "name")

	err := s.store.Delete(r.Context(), name)
	observability.Store().OnDelete(r.Context(), name, err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStrips(w http.ResponseWriter, r *http.Request) {
	req, d, err := s.decodePipelineRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), d, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stripsResponse{
		DesignHash: res.DesignHash,
		Strips:     res.Strips,
		Stats:      res.Stats,
		Cache:      res.CacheInfo,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, d, err := s.decodePipelineRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), d, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	artifacts := make(map[string]string, len(res.Artifacts))
	for id, svg := range res.Artifacts {
		artifacts[id] = string(svg)
	}
	writeJSON(w, http.StatusOK, exportResponse{
		DesignHash: res.DesignHash,
		Artifacts:  artifacts,
		Stats:      res.Stats,
		Cache:      res.CacheInfo,
	})
}

// decodePipelineRequest parses the request body and resolves the design,
// either inline or from the store by name.
func (s *Server) decodePipelineRequest(r *http.Request) (*pipelineRequest, *design.Design, error) {
	var req pipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse request body")
	}

	switch {
	case req.Design != nil && req.Name != "":
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "design and name are mutually exclusive")
	case req.Design != nil:
		if req.Design.Lines == nil {
			req.Design.Lines = map[string]design.Line{}
		}
		return &req, req.Design, nil
	case req.Name != "":
		if s.store == nil {
			return nil, nil, errors.New(errors.ErrCodeUnsupported, "no design store configured")
		}
		d, err := s.store.Get(r.Context(), req.Name)
		observability.Store().OnLoad(r.Context(), req.Name, err)
		if err != nil {
			return nil, nil, err
		}
		return &req, d, nil
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "design or name is required")
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP statuses and writes the
// error body. Unknown errors become 500s with the raw message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDesign, errors.ErrCodeInvalidPass,
		errors.ErrCodeInvalidParams, errors.ErrCodeInvalidName:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDesignNotFound, errors.ErrCodeGroupNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}
