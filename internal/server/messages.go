package server

import (
	"fmt"

	"github.com/muurk/epdwave/internal/export"
	"github.com/muurk/epdwave/internal/wbf"
)

// Message types exchanged over /ws
const (
	TypeDocument = "document"
	TypeWaveform = "waveform"
	TypeHeader   = "header"
	TypeError    = "error"
)

// Request is a client message on /ws.
// A waveform request names a mode and either a range index or a temperature.
type Request struct {
	Type    string `json:"type"`
	Mode    string `json:"mode,omitempty"`
	Range   *int   `json:"range,omitempty"`
	Celsius *int   `json:"celsius,omitempty"`
}

// Message is a server message on /ws
type Message struct {
	Type     string            `json:"type"`
	Document *export.Document  `json:"document,omitempty"`
	Waveform *WaveformPayload  `json:"waveform,omitempty"`
	Header   []wbf.HeaderField `json:"header,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// WaveformPayload is one selected waveform
type WaveformPayload struct {
	Mode   string       `json:"mode"`
	Range  int          `json:"range"`
	Bounds string       `json:"bounds"`
	Phases []export.Row `json:"phases"`
}

func documentMessage(doc *export.Document) *Message {
	return &Message{Type: TypeDocument, Document: doc}
}

func errorMessage(format string, args ...any) *Message {
	return &Message{Type: TypeError, Error: fmt.Sprintf(format, args...)}
}

// answer builds the response to a client request
func (s *Server) answer(req *Request) *Message {
	switch req.Type {
	case TypeDocument:
		return documentMessage(s.Document())

	case TypeHeader:
		return &Message{Type: TypeHeader, Header: s.Result().Header.Fields()}

	case TypeWaveform:
		payload, err := s.selectWaveform(req)
		if err != nil {
			return errorMessage("%v", err)
		}
		return &Message{Type: TypeWaveform, Waveform: payload}

	default:
		return errorMessage("unknown request type %q", req.Type)
	}
}

func (s *Server) selectWaveform(req *Request) (*WaveformPayload, error) {
	res := s.Result()

	id, err := wbf.ParseModeName(req.Mode)
	if err != nil {
		return nil, err
	}

	var idx int
	switch {
	case req.Range != nil:
		idx = *req.Range
	case req.Celsius != nil:
		var ok bool
		idx, ok = wbf.RangeFor(res.TemperatureRanges, *req.Celsius)
		if !ok {
			return nil, fmt.Errorf("no temperature range covers %d °C", *req.Celsius)
		}
	default:
		return nil, fmt.Errorf("waveform request needs range or celsius")
	}

	w, err := res.Waveform(id, idx)
	if err != nil {
		return nil, err
	}

	return &WaveformPayload{
		Mode:   id.String(),
		Range:  idx,
		Bounds: res.TemperatureRanges[idx].String(),
		Phases: export.Rows(w.Phases),
	}, nil
}
