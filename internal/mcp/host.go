package mcp

import (
	"sync"

	"github.com/dshills/subly-core/internal/docstore"
)

// Notification methods sent to the host
const (
	MethodWindowShow       = "window/show"
	MethodWindowHide       = "window/hide"
	MethodWindowFocus      = "window/focus"
	MethodNotificationShow = "notification/show"
	MethodDocumentsChanged = "documents/changed"
)

// SendFunc delivers one notification to the connected client
type SendFunc func(method string, params map[string]any)

type notification struct {
	method string
	params map[string]any
}

// Host is the window and notification surface of the connected client.
// Notifications raised before the client has initialized are queued and
// flushed in order once it has.
type Host struct {
	mu      sync.Mutex
	send    SendFunc
	ready   bool
	pending []notification
}

// NewHost creates a host delivering through send
func NewHost(send SendFunc) *Host {
	return &Host{send: send}
}

// MarkReady flushes queued notifications; later ones are sent directly
func (h *Host) MarkReady() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = true
	for _, n := range h.pending {
		h.send(n.method, n.params)
	}
	h.pending = nil
}

func (h *Host) notify(method string, params map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.ready {
		h.pending = append(h.pending, notification{method: method, params: params})
		return
	}
	h.send(method, params)
}

func (h *Host) Show() error {
	h.notify(MethodWindowShow, nil)
	return nil
}

func (h *Host) Hide() error {
	h.notify(MethodWindowHide, nil)
	return nil
}

func (h *Host) SetFocus() error {
	h.notify(MethodWindowFocus, nil)
	return nil
}

// Notify asks the host to show a system notification
func (h *Host) Notify(title, body string) error {
	h.notify(MethodNotificationShow, map[string]any{"title": title, "body": body})
	return nil
}

// DocumentsChanged reports a change in the cloud container
func (h *Host) DocumentsChanged(ev docstore.DocumentEvent) {
	h.notify(MethodDocumentsChanged, map[string]any{"name": ev.Name, "op": string(ev.Op)})
}
