package insight

import (
	"context"
	"time"
)

// Request is the generator contract: the entry plus the instruction prompt.
type Request struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Prompt  string `json:"prompt"`
}

// Generator port (interface untuk AI reflection)
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Exchange is one answered request, kept for auditing.
type Exchange struct {
	ID        string    `json:"id"`
	Request   Request   `json:"request"`
	Model     string    `json:"model,omitempty"`
	Analysis  string    `json:"analysis"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive port (interface untuk penyimpanan hasil analisa)
type Archive interface {
	Put(ctx context.Context, ex *Exchange) (string, error)
}
