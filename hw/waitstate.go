package hw

//go:generate go tool stringer -type=WaitState,FaultKind -output=stringer.go

// WaitState tells whether the CPU executes instructions or waits for an
// interrupt.
type WaitState uint8

const (
	Normal   WaitState = iota // fetching and executing instructions
	SyncWait                  // after SYNC, any interrupt line resumes
	CwaiWait                  // after CWAI, frame already stacked
)
