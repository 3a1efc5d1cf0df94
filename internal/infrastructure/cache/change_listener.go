package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/aggregion/dmp-registry/pkg/cache"
)

// scriptChangeChannel is the NOTIFY channel fired by the scripts table
// trigger whenever a script row is inserted, updated, or deleted.
const scriptChangeChannel = "registry_script_changes"

// ChangeListener keeps the script lookup cache consistent across
// registry instances. It uses PostgreSQL LISTEN/NOTIFY to invalidate
// cached lookups the moment another instance changes the scripts table.
type ChangeListener struct {
	mu       sync.Mutex
	cache    cache.Cache
	connStr  string
	listener *pq.Listener
	stopCh   chan struct{}
	stopped  bool

	invalidations uint64
}

// NewChangeListener creates a ChangeListener that clears the given
// cache on script change notifications.
// connStr is the PostgreSQL connection string for LISTEN/NOTIFY.
func NewChangeListener(c cache.Cache, connStr string) *ChangeListener {
	return &ChangeListener{
		cache:   c,
		connStr: connStr,
		stopCh:  make(chan struct{}),
	}
}

// Start opens the LISTEN connection and begins processing notifications.
func (l *ChangeListener) Start() error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			// Connection problems are transient, the listener reconnects
			log.Printf("script change listener error: %v", err)
		}
	}

	l.listener = pq.NewListener(l.connStr, 10*time.Second, time.Minute, reportProblem)

	if err := l.listener.Listen(scriptChangeChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", scriptChangeChannel, err)
	}

	go l.handleNotifications()

	return nil
}

// Stop stops the listener and cleans up resources.
func (l *ChangeListener) Stop() error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return nil
	}
	l.stopped = true
	close(l.stopCh)
	l.mu.Unlock()

	if l.listener != nil {
		return l.listener.Close()
	}
	return nil
}

// Invalidations returns the number of cache invalidations performed.
func (l *ChangeListener) Invalidations() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.invalidations
}

// invalidate drops all cached script lookups. The trigger payload only
// carries the operation name, so the whole cache is cleared rather than
// individual keys.
func (l *ChangeListener) invalidate(ctx context.Context) {
	if err := l.cache.Clear(ctx); err != nil {
		log.Printf("failed to clear script cache: %v", err)
		return
	}

	l.mu.Lock()
	l.invalidations++
	l.mu.Unlock()
}

// handleNotifications processes incoming NOTIFY events.
func (l *ChangeListener) handleNotifications() {
	for {
		select {
		case <-l.stopCh:
			return
		case notification := <-l.listener.Notify:
			if notification == nil {
				// Connection lost. The listener reconnects automatically,
				// but notifications may have been missed in the meantime.
				l.invalidate(context.Background())
				continue
			}
			l.invalidate(context.Background())
		case <-time.After(90 * time.Second):
			// Periodic ping to keep connection alive
			go func() {
				if err := l.listener.Ping(); err != nil {
					log.Printf("script change listener ping error: %v", err)
				}
			}()
		}
	}
}
