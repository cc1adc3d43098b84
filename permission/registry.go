package permission

import (
	"errors"
	"strings"
	"sync"
)

// Key builds the canonical registry name for a (resource, action) pair,
// e.g. Key("wallet", "withdraw") == "wallet:withdraw".
func Key(resource, action string) string {
	return resource + ":" + action
}

// Registry maps grant names to bit positions within a bitmask.
// Supported widths are 64 and 128 bits.
type Registry struct {
	maxBits int

	mu        sync.RWMutex
	nameToBit map[string]int
	bitToName map[int]string
	frozen    bool
}

// NewRegistry creates a grant [Registry]. maxBits selects the mask width
// (64 or 128).
func NewRegistry(maxBits int) (*Registry, error) {
	if maxBits != 64 && maxBits != 128 {
		return nil, errors.New("invalid maxBits")
	}

	return &Registry{
		maxBits:   maxBits,
		nameToBit: make(map[string]int),
		bitToName: make(map[int]string),
	}, nil
}

// Register assigns the next available bit to the named grant. Names are
// "resource:action" pairs; see [Key]. Returns the assigned bit index.
// Must be called before [Registry.Freeze].
func (r *Registry) Register(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return -1, errors.New("registry frozen")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return -1, errors.New("grant name cannot be empty")
	}
	if !strings.Contains(name, ":") {
		return -1, errors.New("grant name must be resource:action")
	}

	if _, exists := r.nameToBit[name]; exists {
		return -1, errors.New("grant already registered")
	}

	nextBit := len(r.nameToBit)
	if nextBit >= r.maxBits {
		return -1, errors.New("grant limit exceeded")
	}

	r.nameToBit[name] = nextBit
	r.bitToName[nextBit] = name

	return nextBit, nil
}

// RegisterPair is shorthand for Register(Key(resource, action)).
func (r *Registry) RegisterPair(resource, action string) (int, error) {
	return r.Register(Key(resource, action))
}

// Bit returns the bit index for the named grant, or false if not registered.
func (r *Registry) Bit(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[name]
	return bit, ok
}

// Name returns the grant name for the given bit index, or false if unassigned.
func (r *Registry) Name(bit int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// Freeze prevents further registrations. Must be called before the
// registry is used for validation.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered grants.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToBit)
}

// MaxBits returns the configured mask width.
func (r *Registry) MaxBits() int {
	return r.maxBits
}
