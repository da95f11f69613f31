//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	"trpc.group/trpc-go/trpc-blocks-go/block"
	"trpc.group/trpc-go/trpc-blocks-go/catalog"
	"trpc.group/trpc-go/trpc-blocks-go/compiler"
	"trpc.group/trpc-go/trpc-blocks-go/graph"
	"trpc.group/trpc-go/trpc-blocks-go/log"
)

// BlockInfo is a catalog entry with its rendered help.
type BlockInfo struct {
	*block.Definition
	HelpHTML string `json:"help_html,omitempty"`
}

// ValidationResponse is returned by the validate endpoint.
type ValidationResponse struct {
	Valid       bool                     `json:"valid"`
	Errors      []*graph.ValidationError `json:"errors"`
	Diagnostics compiler.Diagnostics     `json:"diagnostics"`
}

// InspectRequest asks whether SourceBlockID may feed SocketID of
// TargetBlockID in the graph described by Blocks.
type InspectRequest struct {
	Blocks        []block.State `json:"blocks"`
	TargetBlockID string        `json:"target_block_id"`
	SocketID      string        `json:"socket_id"`
	SourceBlockID string        `json:"source_block_id"`
}

// InspectResponse is the verdict for an InspectRequest.
type InspectResponse struct {
	Allowed bool                   `json:"allowed"`
	Error   *graph.ValidationError `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleListBlocks lists definitions. Query parameters: category, level
// (maximum pedagogy level) and lang (sort by label in that locale).
func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	defs := s.catalog.List()
	if lang := q.Get("lang"); lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid lang %q", lang))
			return
		}
		defs = s.catalog.SortedByLabel(tag)
	}

	maxLevel := -1
	if v := q.Get("level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid level %q", v))
			return
		}
		maxLevel = n
	}
	category := q.Get("category")

	out := make([]*block.Definition, 0, len(defs))
	for _, def := range defs {
		if category != "" && def.Category != category {
			continue
		}
		if maxLevel >= 0 && def.PedagogyLevel > maxLevel {
			continue
		}
		out = append(out, def)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	def, ok := s.catalog.Definition(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("block %q not found", id))
		return
	}
	help, err := s.catalog.HelpHTML(id)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, BlockInfo{Definition: def, HelpHTML: help})
}

// handleCompile compiles a serialized graph. JSON and MessagePack bodies are
// accepted; results are cached by body digest.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	format := requestFormat(r)
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey(format, body)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			w.Header().Set(headerCache, "hit")
			writeJSON(w, http.StatusOK, v)
			return
		}
	}

	states, err := graph.Unmarshal(format, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.compiler.CompileStates(r.Context(), s.catalog, states)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if s.cache != nil {
		s.cache.Add(key, res)
		w.Header().Set(headerCache, "miss")
	}
	writeJSON(w, http.StatusOK, res)
}

// handleValidate restores a graph and reports every rejected record plus the
// diagnostics compiling it would produce.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	format := requestFormat(r)
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	states, err := graph.Unmarshal(format, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, restoreErr := graph.Restore(s.catalog, states)
	resp := ValidationResponse{Errors: []*graph.ValidationError{}}
	for _, e := range graph.Errors(restoreErr) {
		var ve *graph.ValidationError
		if !errors.As(e, &ve) {
			ve = &graph.ValidationError{Message: e.Error()}
		}
		resp.Errors = append(resp.Errors, ve)
	}
	_, resp.Diagnostics = compiler.Build(g, s.compilerOpts...)
	if resp.Diagnostics == nil {
		resp.Diagnostics = compiler.Diagnostics{}
	}
	resp.Valid = len(resp.Errors) == 0
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInspectConnection(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req InspectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}

	// Partially restored graphs are still inspected.
	g, _ := graph.Restore(s.catalog, req.Blocks)
	resp := InspectResponse{Allowed: true}
	if err := g.CanConnect(req.TargetBlockID, req.SocketID, req.SourceBlockID); err != nil {
		resp.Allowed = false
		if !errors.As(err, &resp.Error) {
			resp.Error = &graph.ValidationError{Message: err.Error()}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestFormat(r *http.Request) graph.Format {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case contentTypeMsgp, contentTypeXMsgp:
		return graph.FormatMsgpack
	default:
		return graph.FormatJSON
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func cacheKey(format graph.Format, body []byte) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
