// Package discovery finds and announces epdwave publishers over mDNS.
//
// "epdwave serve" registers a "_epdwave._tcp" service whose TXT records
// carry the waveform serial, the mode and range counts, and the path of the
// exported document. "epdwave scan" browses for those services.
//
//	publishers, err := discovery.Scan(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range publishers {
//	    fmt.Println(p.Serial, p.DocumentURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Publishers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
