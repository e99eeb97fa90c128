package live

import (
	"encoding/json"
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

// Frame types sent by the client.
const (
	FrameInput = "input"
	FrameEvent = "event"
)

// Patch ops sent by the server.
const (
	OpMount = "mount"
	OpText  = "text"
	OpHTML  = "html"
	OpValue = "value"
	OpAttr  = "attr"
	OpError = "error"
)

// ClientFrame is one message from the browser.
type ClientFrame struct {
	Type   string `json:"type"`
	Target uint64 `json:"target"`
	Event  string `json:"event,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Patch is one change for the browser to apply.
type Patch struct {
	Op     string   `json:"op"`
	Target uint64   `json:"target,omitempty"`
	Name   string   `json:"name,omitempty"`
	Value  string   `json:"value"`
	Events []string `json:"events,omitempty"`
}

// DecodeFrame parses and validates a client frame.
func DecodeFrame(data []byte) (ClientFrame, error) {
	var f ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return f, errors.New("E141").Wrap(err)
	}
	switch f.Type {
	case FrameInput:
	case FrameEvent:
		if f.Event == "" {
			return f, errors.New("E141").WithDetail("event frame without event type")
		}
	default:
		return f, errors.New("E141").WithDetailf("unknown frame type %q", f.Type)
	}
	if f.Target == 0 {
		return f, errors.New("E141").WithDetail("frame without target")
	}
	return f, nil
}

// patchFor converts a tree mutation into a patch. HTML mutations carry the
// new children rendered with IDs so they stay addressable.
func patchFor(m dom.Mutation) Patch {
	p := Patch{Target: m.Target.ID(), Value: m.Value}
	switch m.Kind {
	case dom.MutationText:
		p.Op = OpText
	case dom.MutationHTML:
		p.Op = OpHTML
		var b strings.Builder
		_ = dom.RenderChildren(&b, m.Target, dom.RenderOptions{IDs: true})
		p.Value = b.String()
	case dom.MutationValue:
		p.Op = OpValue
	case dom.MutationAttr:
		p.Op = OpAttr
		p.Name = m.Name
	}
	return p
}
