package forms

import (
	"sync"

	"github.com/dmitrijs2005/staffdesk/internal/client/models"
	"github.com/google/uuid"
)

// Previewer hands out display handles for picked files. Every handle that
// was opened must be released.
type Previewer interface {
	Open(a models.Attachment) string
	Release(handle string)
}

// PreviewRegistry issues blob: handles and tracks the live ones.
type PreviewRegistry struct {
	mu   sync.Mutex
	live map[string]string
}

func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{live: map[string]string{}}
}

func (p *PreviewRegistry) Open(a models.Attachment) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	h := "blob:" + uuid.NewString()
	p.live[h] = a.Filename
	return h
}

func (p *PreviewRegistry) Release(handle string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.live, handle)
}

// Name returns the file name behind a live handle.
func (p *PreviewRegistry) Name(handle string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.live[handle]
	return n, ok
}

func (p *PreviewRegistry) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}
