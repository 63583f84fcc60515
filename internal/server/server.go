package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/epdwave/internal/discovery"
	"github.com/muurk/epdwave/internal/export"
	"github.com/muurk/epdwave/internal/logging"
	"github.com/muurk/epdwave/internal/version"
	"github.com/muurk/epdwave/internal/wbf"
)

// Config holds the server configuration
type Config struct {
	Host      string
	Port      int
	CertPath  string // Serve HTTPS when both CertPath and KeyPath are set
	KeyPath   string
	Advertise bool          // Announce over mDNS
	Instance  string        // mDNS instance name; derived from the serial when empty
	Watch     time.Duration // Poll interval for re-decoding the file; zero disables
}

// Server publishes one decoded waveform file over HTTP and WebSocket
type Server struct {
	config *Config
	path   string
	opts   []wbf.Option

	mu      sync.RWMutex
	res     *wbf.Result
	doc     *export.Document
	modTime time.Time

	hub       *hub
	httpSrv   *http.Server
	listener  net.Listener
	tlsConfig *tls.Config
	ad        *discovery.Advertisement
	wg        sync.WaitGroup
}

// New decodes path and prepares a server for it
func New(config *Config, path string, opts ...wbf.Option) (*Server, error) {
	s := &Server{
		config: config,
		path:   path,
		opts:   opts,
		hub:    newHub(),
	}

	if config.CertPath != "" || config.KeyPath != "" {
		tlsConfig, err := NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, err
		}
		s.tlsConfig = tlsConfig
	}

	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFromResult serves an already decoded file. Reload is unavailable
// unless path names a readable file.
func NewFromResult(config *Config, path string, res *wbf.Result) *Server {
	s := &Server{config: config, path: path, hub: newHub()}
	s.setResult(res, time.Time{})
	return s
}

func (s *Server) setResult(res *wbf.Result, modTime time.Time) {
	doc := export.Build(res)

	s.mu.Lock()
	s.res = res
	s.doc = doc
	s.modTime = modTime
	s.mu.Unlock()
}

// Result returns the currently served decode
func (s *Server) Result() *wbf.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}

// Document returns the currently served document
func (s *Server) Document() *export.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Reload re-decodes the file and pushes the new document to every
// WebSocket client. It reports whether the file had changed.
func (s *Server) Reload() (bool, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	s.mu.RLock()
	unchanged := s.res != nil && info.ModTime().Equal(s.modTime)
	s.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	res, err := wbf.DecodeFile(s.path, s.opts...)
	if err != nil {
		return false, err
	}
	s.setResult(res, info.ModTime())

	logging.Info("Waveform file decoded",
		zap.String("path", s.path),
		zap.Uint32("serial", res.Header.Serial),
		zap.Int("warnings", len(res.Warnings)),
	)

	s.hub.broadcast(documentMessage(s.Document()))
	return true, nil
}

// Addr returns the listen address, once Start has bound it
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start serves until ctx is cancelled or an interrupt arrives
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Publishing waveform file",
		zap.String("addr", listener.Addr().String()),
		zap.String("path", s.path),
		zap.Bool("tls", s.tlsConfig != nil),
	)

	if s.config.Advertise {
		if err := s.advertise(); err != nil {
			// Serving still works without mDNS
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if s.config.Watch > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.watch(ctx)
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpSrv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) advertise() error {
	res := s.Result()
	instance := s.config.Instance
	if instance == "" {
		instance = fmt.Sprintf("epdwave-%d", res.Header.Serial)
	}

	port := s.config.Port
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}

	ad, err := discovery.Advertise(instance, port, discovery.Info{
		Serial:  res.Header.Serial,
		Modes:   len(res.Modes),
		Ranges:  len(res.TemperatureRanges),
		Version: version.Short(),
	})
	if err != nil {
		return err
	}
	s.ad = ad
	return nil
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.config.Watch)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := s.Reload()
			if err != nil {
				logging.Warn("Reload failed, keeping previous document",
					zap.String("path", s.path),
					zap.Error(err),
				)
				continue
			}
			if changed {
				logging.Info("Waveform file changed, document pushed",
					zap.Int("clients", s.hub.count()),
				)
			}
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.ad.Shutdown()

	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}

	// Hijacked WebSocket connections are not tracked by http.Server
	s.hub.closeAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		s.hub.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// ActiveClients returns the number of connected WebSocket clients
func (s *Server) ActiveClients() int {
	return s.hub.count()
}
