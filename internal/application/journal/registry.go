package journal

import "sync"

// Registry hands out one Controller per signed-in user.
type Registry struct {
	deps Deps

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewRegistry(d Deps) *Registry {
	return &Registry{deps: d, controllers: make(map[string]*Controller)}
}

// For returns the user's controller, creating it on first use.
func (r *Registry) For(userID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.controllers[userID]; ok {
		return c
	}
	c := NewController(userID, r.deps)
	r.controllers[userID] = c
	return c
}

// Release closes and forgets the user's controller (sign-out / view teardown).
func (r *Registry) Release(userID string) {
	r.mu.Lock()
	c, ok := r.controllers[userID]
	delete(r.controllers, userID)
	r.mu.Unlock()
	if ok {
		c.Close()
	}
}

// Close releases every controller.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.controllers
	r.controllers = make(map[string]*Controller)
	r.mu.Unlock()
	for _, c := range all {
		c.Close()
	}
}
