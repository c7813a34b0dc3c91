package notice

import (
	"context"
	"sync"
)

// Variant enum
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notice is a short user-visible message (a toast).
type Notice struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant"`
}

func Success(title, description string) Notice {
	return Notice{Title: title, Description: description, Variant: VariantDefault}
}

func Error(title, description string) Notice {
	return Notice{Title: title, Description: description, Variant: VariantDestructive}
}

// Notifier port (interface untuk surface notice ke user)
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Collector gathers notices raised while serving one request.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

func (c *Collector) add(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns a copy of everything collected so far.
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

type collectorKey struct{}

// WithCollector attaches a fresh Collector to ctx.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// CollectorFrom returns the Collector attached to ctx, if any.
func CollectorFrom(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}

// ContextNotifier delivers notices to the Collector carried by the request context.
// Notices raised outside a request are dropped.
type ContextNotifier struct{}

func (ContextNotifier) Notify(ctx context.Context, n Notice) {
	if c := CollectorFrom(ctx); c != nil {
		c.add(n)
	}
}
