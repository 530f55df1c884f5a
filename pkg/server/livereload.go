package server

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// LiveReloadPath is the SSE endpoint the injected client listens on.
const LiveReloadPath = "/__livereload"

// Live reload event names.
const (
	EventReload = "reload"
	EventModel  = "model"
)

var eventStreamMediaTypes = []contenttype.MediaType{contenttype.NewMediaType("text/event-stream")}

const liveReloadClient = `<script>(function(){var s=new EventSource("` + LiveReloadPath + `");` +
	`s.addEventListener("reload",function(){location.reload()});` +
	`s.addEventListener("model",function(e){document.dispatchEvent(new CustomEvent("propedit:model",{detail:e.data}))});` +
	`})();</script>`

// InjectLiveReload inserts the reload client before </body>, or appends it
// when the document has no body close tag.
func InjectLiveReload(page []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(append([]byte(nil), page...), liveReloadClient...)
	}
	out := make([]byte, 0, len(page)+len(liveReloadClient))
	out = append(out, page[:idx]...)
	out = append(out, liveReloadClient...)
	out = append(out, page[idx:]...)
	return out
}

type liveEvent struct {
	name string
	data string
}

// Hub fans out live reload events to connected browsers.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]chan liveEvent
	logger  *slog.Logger
}

// NewHub constructs an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]chan liveEvent),
		logger:  logger,
	}
}

// Broadcast queues an event for every client. Slow clients drop events.
func (h *Hub) Broadcast(name, data string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.clients {
		select {
		case ch <- liveEvent{name: name, data: data}:
		default:
			h.logger.Debug("livereload.drop", slog.String("client", id), slog.String("event", name))
		}
	}
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add() (string, chan liveEvent) {
	id := uuid.NewString()
	ch := make(chan liveEvent, 8)
	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()
	return id, ch
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, _, err := contenttype.GetAcceptableMediaType(r, eventStreamMediaTypes); err != nil {
		http.Error(w, "client must accept text/event-stream", http.StatusNotAcceptable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, events := h.add()
	defer h.remove(id)
	h.logger.Debug("livereload.connect", slog.String("client", id))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, ": connected %s\n\n", id)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("livereload.disconnect", slog.String("client", id))
			return
		case ev := <-events:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data)
			flusher.Flush()
		}
	}
}

// Watch broadcasts a reload whenever a file under dirs changes, and calls
// onChange with the changed path first. It blocks until ctx is done.
func (h *Hub) Watch(ctx context.Context, dirs []string, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server: create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	for _, dir := range dirs {
		if err := addTree(watcher, dir); err != nil {
			h.logger.Warn("livereload.watch_failed", slog.String("dir", dir), slog.String("err", err.Error()))
		}
	}

	// Editors emit bursts of events per save; coalesce them.
	const settle = 50 * time.Millisecond
	var (
		timer   *time.Timer
		pending string
		fire    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addTree(watcher, ev.Name)
				}
			}
			pending = ev.Name
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if onChange != nil {
				onChange(pending)
			}
			h.logger.Info("livereload.change", slog.String("path", pending))
			h.Broadcast(EventReload, pending)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Warn("livereload.watch_error", slog.String("err", err.Error()))
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
