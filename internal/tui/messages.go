package tui

import "github.com/udhaarapp/udhaar/internal/engine"

// Async operation messages.
type syncDoneMsg struct {
	err    error
	result engine.SyncResult
}

type actionDoneMsg struct {
	err  error
	verb string
}
