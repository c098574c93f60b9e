package project

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Session lazily opens exactly one Project, however many goroutines ask
// for it first. Traffic against the opened project is not synchronized.
type Session struct {
	once sync.Once
	root string
	opts []Option
	p    *Project
	err  error
}

// NewSession returns a Session that opens root with opts on first use.
func NewSession(root string, opts ...Option) *Session {
	return &Session{root: root, opts: opts}
}

// Project opens the project on first call and returns the same project, or
// the same error, on every call.
func (s *Session) Project() (*Project, error) {
	s.once.Do(func() {
		s.p, s.err = Open(s.root, s.opts...)
	})
	return s.p, s.err
}

// Close closes the opened project, saving it if dirty. Returns
// ErrProjectNotOpen if no project was opened successfully.
func (s *Session) Close(ctx context.Context) error {
	if s.p == nil {
		return types.ErrProjectNotOpen
	}
	return s.p.Close(ctx)
}
