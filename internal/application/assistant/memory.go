package assistant

import "sync"

// ArgumentMemory remembers the last value of selected parameters so a
// follow-up question can omit them ("and where do I sell it?").
type ArgumentMemory struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

// NewArgumentMemory creates an empty memory
func NewArgumentMemory() *ArgumentMemory {
	return &ArgumentMemory{values: make(map[string]interface{})}
}

// Recall returns the remembered value of a parameter
func (m *ArgumentMemory) Recall(name string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[name]
	return v, ok
}

// Remember stores a value; nil forgets the parameter
func (m *ArgumentMemory) Remember(name string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == nil {
		delete(m.values, name)
		return
	}
	m.values[name] = value
}

// Clear forgets everything
func (m *ArgumentMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]interface{})
}

// Snapshot returns a copy of the remembered values
func (m *ArgumentMemory) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]interface{}, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
