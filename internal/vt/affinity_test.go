package vt

import (
	"fmt"
	"testing"
)

func TestAffinityAssignResolve(t *testing.T) {
	m := newTestManager(t, 3, 6, 4)

	m.AssignContext("shell-a", 2)
	m.AssignContext("shell-b", 3)

	if got := m.ResolveContext("shell-a"); got != 2 {
		t.Errorf("ResolveContext(shell-a) = %d, want 2", got)
	}
	if got := m.ResolveContext("shell-b"); got != 3 {
		t.Errorf("ResolveContext(shell-b) = %d, want 3", got)
	}
}

func TestAffinityDefaultsToActive(t *testing.T) {
	m := newTestManager(t, 3, 6, 4)

	if got := m.ResolveContext("unmapped"); got != 0 {
		t.Errorf("ResolveContext = %d, want active 0", got)
	}
	m.Switch(2)
	if got := m.ResolveContext("unmapped"); got != 2 {
		t.Errorf("after switch, ResolveContext = %d, want active 2", got)
	}
}

func TestAffinityReassign(t *testing.T) {
	m := newTestManager(t, 3, 6, 4)

	m.AssignContext("shell", 1)
	m.AssignContext("shell", 3)

	if got := m.ResolveContext("shell"); got != 3 {
		t.Errorf("ResolveContext = %d, want 3 after reassign", got)
	}
}

func TestAffinityInvalidSessionIgnored(t *testing.T) {
	m := newTestManager(t, 3, 6, 4)

	m.AssignContext("shell", 9)
	m.AssignContext("shell", -1)

	if got := m.ResolveContext("shell"); got != m.Active() {
		t.Errorf("ResolveContext = %d, want active %d", got, m.Active())
	}
}

func TestAffinityTableFull(t *testing.T) {
	m := newTestManager(t, 3, 6, 4)

	for i := 0; i < maxContexts; i++ {
		m.AssignContext(fmt.Sprintf("ctx-%d", i), i%4)
	}
	// The table is full; a new context is dropped and resolves to active.
	m.AssignContext("overflow", 3)
	if got := m.ResolveContext("overflow"); got != 0 {
		t.Errorf("ResolveContext(overflow) = %d, want active 0", got)
	}
	// Existing entries can still be updated in place.
	m.AssignContext("ctx-0", 1)
	if got := m.ResolveContext("ctx-0"); got != 1 {
		t.Errorf("ResolveContext(ctx-0) = %d, want 1 after update", got)
	}
}
