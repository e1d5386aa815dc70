package edit

import (
	"sync"

	"rptedit/internal/command"
)

// Ledger is an append-only record of the commands applied to each report,
// in application order with no de-duplication. The lock guards the registry
// across reports; ordering within one report is still the caller's
// responsibility (at most one in-flight edit per report).
type Ledger struct {
	mu      sync.Mutex
	entries map[string][]command.Command
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string][]command.Command)}
}

// Append records one applied command for the report.
func (l *Ledger) Append(reportID string, cmd command.Command) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[reportID] = append(l.entries[reportID], cmd)
}

// List returns the commands applied to the report in insertion order. The
// returned slice is a copy.
func (l *Ledger) List(reportID string) []command.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	src := l.entries[reportID]
	out := make([]command.Command, len(src))
	copy(out, src)
	return out
}
