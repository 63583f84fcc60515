// Package server publishes a decoded waveform file over HTTP and WebSocket.
//
// The exported document is served at /waveforms.json (and .yaml), the header
// fields at /header.json, and a debugging view at /raw.json. WebSocket
// subscribers on /ws receive the current document on connect and again
// whenever the file changes on disk; they may also request single
// waveforms:
//
//	{"type": "waveform", "mode": "GC16", "celsius": 23}
//
// When advertising is enabled the server registers "_epdwave._tcp" over
// mDNS so that "epdwave scan" can find it.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Port: 8750, Advertise: true}, "panel.wbf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Start returns after SIGINT, SIGTERM or cancellation of its context. The
// mDNS record is withdrawn, HTTP requests drain, and WebSocket clients get
// a close frame.
package server
