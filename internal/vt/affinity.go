package vt

import "sync"

// maxContexts is the fixed capacity of the affinity table. Assignments past
// capacity are dropped; the context then falls back to the active session,
// which is the correct default for short-lived helpers anyway.
const maxContexts = 8

type affinityEntry struct {
	ctx     string
	session int
}

// affinityTable maps execution contexts to the session they implicitly
// read and write. Go offers no goroutine identity on purpose, so contexts
// are opaque caller-chosen strings; the app layer mints them per shell
// host. Entries never expire.
type affinityTable struct {
	mu      sync.Mutex
	entries []affinityEntry
}

func (t *affinityTable) assign(ctx string, session int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		if t.entries[i].ctx == ctx {
			t.entries[i].session = session
			return
		}
	}
	if len(t.entries) < maxContexts {
		t.entries = append(t.entries, affinityEntry{ctx: ctx, session: session})
	}
}

func (t *affinityTable) resolve(ctx string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		if t.entries[i].ctx == ctx {
			return t.entries[i].session, true
		}
	}
	return 0, false
}

// AssignContext binds an execution context to a session. Idempotent upsert;
// out-of-range sessions are ignored, and a full table silently drops the
// assignment (the context keeps default-to-active behavior).
func (m *Manager) AssignContext(ctx string, session int) {
	if session < 0 || session >= len(m.sessions) {
		return
	}
	m.affinity.assign(ctx, session)
}

// ResolveContext returns the session bound to the context, or the active
// session when the context is unmapped. This lets a background task keep
// writing to "its" terminal no matter what is currently on screen.
func (m *Manager) ResolveContext(ctx string) int {
	if id, ok := m.affinity.resolve(ctx); ok {
		return id
	}
	return m.Active()
}
