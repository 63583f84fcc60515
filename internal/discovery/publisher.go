package discovery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TXT record keys announced by epdwave publishers
const (
	TXTSerial  = "serial"
	TXTModes   = "modes"
	TXTRanges  = "ranges"
	TXTPath    = "path"
	TXTVersion = "version"
)

// Publisher is an epdwave server found on the network
type Publisher struct {
	// Instance is the mDNS service instance name (e.g., "epdwave-123456")
	Instance string

	// Hostname is the mDNS hostname of the machine running the server
	Hostname string

	// IP is the preferred address (IPv4 when available)
	IP string

	Port int

	// Serial is the waveform file serial number being served
	Serial string

	// Metadata holds every TXT record, including the well-known keys
	Metadata map[string]string

	DiscoveredAt time.Time
}

// Info describes the file a server publishes, for its TXT records
type Info struct {
	Serial  uint32
	Modes   int
	Ranges  int
	Version string
}

// TXTRecords encodes info as "key=value" TXT strings
func (i Info) TXTRecords() []string {
	return []string{
		TXTSerial + "=" + strconv.FormatUint(uint64(i.Serial), 10),
		TXTModes + "=" + strconv.Itoa(i.Modes),
		TXTRanges + "=" + strconv.Itoa(i.Ranges),
		TXTPath + "=" + DocumentPath,
		TXTVersion + "=" + i.Version,
	}
}

// DocumentPath is the HTTP path of the exported document on a publisher
const DocumentPath = "/waveforms.json"

// String returns a human-readable string representation of the publisher
func (p *Publisher) String() string {
	return fmt.Sprintf("epdwave %s (serial %s) at %s:%d", p.Instance, p.Serial, p.IP, p.Port)
}

// BaseURL returns the HTTP base URL of the publisher
func (p *Publisher) BaseURL() string {
	host := p.IP
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return fmt.Sprintf("http://%s:%d", host, p.Port)
}

// DocumentURL returns the URL of the exported document
func (p *Publisher) DocumentURL() string {
	path := p.GetMetadata(TXTPath)
	if path == "" {
		path = DocumentPath
	}
	return p.BaseURL() + path
}

// WebSocketURL returns the URL of the live update socket
func (p *Publisher) WebSocketURL() string {
	return "ws" + strings.TrimPrefix(p.BaseURL(), "http") + "/ws"
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (p *Publisher) GetMetadata(key string) string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata[key]
}

// SortPublishers orders publishers by serial then instance name
func SortPublishers(ps []*Publisher) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Serial != ps[j].Serial {
			return ps[i].Serial < ps[j].Serial
		}
		return ps[i].Instance < ps[j].Instance
	})
}
