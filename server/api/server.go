//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

// Package api exposes the block catalog and the compiler over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-blocks-go/catalog"
	"trpc.group/trpc-go/trpc-blocks-go/compiler"
	"trpc.group/trpc-go/trpc-blocks-go/log"
)

const (
	// DefaultCacheSize is the number of compile results kept by default.
	DefaultCacheSize = 256

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes = 4 << 20

	apiPrefix        = "/api/v1"
	headerCache      = "X-Cache"
	contentTypeMsgp  = "application/msgpack"
	contentTypeXMsgp = "application/x-msgpack"
)

// Server serves the HTTP API. Every request works on its own graph, so the
// server holds no per-graph state.
type Server struct {
	router   *mux.Router
	catalog  *catalog.Catalog
	compiler *compiler.Compiler
	cache    *lru.Cache // nil when caching is disabled

	compilerOpts []compiler.Option
	cacheSize    int
	origins      []string
}

// Option configures the Server instance.
type Option func(*Server)

// WithCatalog sets the definitions graphs are resolved against.
// The built-in catalog is used when omitted.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithCompilerOptions appends options for the compiler used by the compile
// endpoint.
func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(s *Server) { s.compilerOpts = append(s.compilerOpts, opts...) }
}

// WithCacheSize sets how many compile results are cached. Zero or less
// disables the cache.
func WithCacheSize(n int) Option {
	return func(s *Server) { s.cacheSize = n }
}

// WithAllowedOrigins restricts CORS to the given origins. All origins are
// allowed when none are given.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = append(s.origins, origins...) }
}

// New creates a server.
func New(opts ...Option) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = catalog.Builtin()
	}
	s.compiler = compiler.New(s.compilerOpts...)
	if s.cacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		s.cache, _ = lru.New(s.cacheSize)
	}

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type", headerCache},
	})
	s.router.Use(c.Handler, logRequests)
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Routes live on the root router so a method mismatch answers 405.
	s.router.HandleFunc(apiPrefix+"/blocks", s.handleListBlocks).Methods(http.MethodGet)
	s.router.HandleFunc(apiPrefix+"/blocks/{id}", s.handleGetBlock).Methods(http.MethodGet)
	s.router.HandleFunc(apiPrefix+"/graphs/compile", s.handleCompile).Methods(http.MethodPost)
	s.router.HandleFunc(apiPrefix+"/graphs/validate", s.handleValidate).Methods(http.MethodPost)
	s.router.HandleFunc(apiPrefix+"/graphs/connections/inspect", s.handleInspectConnection).Methods(http.MethodPost)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.DebugfContext(r.Context(), "%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}
