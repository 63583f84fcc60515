package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/epdwave/internal/logging"
)

const (
	// ServiceType is the mDNS service type announced by "epdwave serve"
	ServiceType = "_epdwave._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for publisher discovery
	DefaultScanTimeout = 5 * time.Second
)

// Scanner handles mDNS publisher discovery
type Scanner struct {
	// Timeout is the maximum time to wait for publishers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers every publisher answering within the timeout
func (s *Scanner) Scan(ctx context.Context) ([]*Publisher, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		seen = make(map[string]*Publisher)
	)

	err := s.browse(ctx, func(p *Publisher) bool {
		mu.Lock()
		seen[p.Instance] = p
		mu.Unlock()
		return true
	})
	if err != nil {
		return nil, err
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	publishers := make([]*Publisher, 0, len(seen))
	for _, p := range seen {
		publishers = append(publishers, p)
	}
	SortPublishers(publishers)
	return publishers, nil
}

// WaitForSerial waits for a publisher serving the given waveform serial
func (s *Scanner) WaitForSerial(ctx context.Context, serial string) (*Publisher, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Publisher, 1)
	err := s.browse(ctx, func(p *Publisher) bool {
		if p.Serial != serial {
			return true
		}
		select {
		case found <- p:
		default:
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case p := <-found:
		return p, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("no publisher for serial %s found within %s", serial, s.Timeout)
	}
}

// browse feeds parsed publishers to fn until ctx ends or fn returns false
func (s *Scanner) browse(ctx context.Context, fn func(*Publisher) bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			p := parseServiceEntry(entry)
			if p == nil {
				continue
			}
			logging.Debug("Publisher discovered",
				zap.String("instance", p.Instance),
				zap.String("serial", p.Serial),
				zap.String("addr", p.BaseURL()),
			)
			if !fn(p) {
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// parseServiceEntry converts a zeroconf service entry to a Publisher.
// Returns nil for entries without a serial or an address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Publisher {
	if entry == nil || entry.Port == 0 {
		return nil
	}

	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		k, v, _ := strings.Cut(txt, "=")
		metadata[k] = v
	}

	serial := metadata[TXTSerial]
	if serial == "" {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	return &Publisher{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Serial:       serial,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Advertisement is a running mDNS registration
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise announces a publisher on the local network until Shutdown
func Advertise(instance string, port int, info Info) (*Advertisement, error) {
	srv, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, info.TXTRecords(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertisement{server: srv}, nil
}

// Shutdown withdraws the announcement
func (a *Advertisement) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}

// Scan is a convenience function to scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Publisher, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
