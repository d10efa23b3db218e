package mcp

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// Version is the MCP server version.
const Version = "0.1.0"

// searchCacheSize bounds the number of cached search result sets.
const searchCacheSize = 128

// refreshInterval is the minimum spacing of registry fetches made through
// the refresh tool.
const refreshInterval = time.Minute

// Server is the MCP server for jfp.
type Server struct {
	ports  *Ports
	server *mcp.Server

	// searches caches results by limit and query until the next refresh.
	searches *lru.Cache[string, []domain.SearchResult]

	// refreshes throttles registry fetches requested by clients.
	refreshes *rate.Limiter

	mu         sync.Mutex
	registered map[string]struct{}
}

// NewServer creates a new MCP server with the given ports and registers
// every stored prompt as an MCP prompt.
func NewServer(ctx context.Context, ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	searches, err := lru.New[string, []domain.SearchResult](searchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating search cache: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "jfp",
		Version: Version,
	}

	s := &Server{
		ports:      ports,
		server:     mcp.NewServer(impl, nil),
		searches:   searches,
		refreshes:  rate.NewLimiter(rate.Every(refreshInterval), 1),
		registered: make(map[string]struct{}),
	}

	s.registerTools()
	s.registerResources()
	if _, err := s.registerPrompts(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
