package merger

import "time"

// Phase names reported through Progress.
const (
	PhaseParsing  = "parsing"
	PhaseMerged   = "merged"
	PhaseEncoding = "encoding"
	PhaseDone     = "done"
	PhaseFailed   = "failed"
)

// Progress contains information about the merge progress.
// Passed to ProgressCallback after every state transition.
type Progress struct {
	// Phase describes the current state:
	//   "parsing"  - Decoding the current input
	//   "merged"   - The current input was folded into the image
	//   "encoding" - All inputs merged, serializing the image
	//   "done"     - Output is ready
	//   "failed"   - The run was aborted; no output is produced
	Phase string

	// Source is the name of the input being processed (empty while encoding)
	Source string

	// CurrentInput is the 1-based index of the input being processed
	CurrentInput int

	// TotalInputs is the number of inputs in the run
	TotalInputs int

	// Conflicts is the number of overlaps recorded so far
	Conflicts int

	// ElapsedTime is the time elapsed since the merge started
	ElapsedTime time.Duration
}

// ProgressCallback is called on every phase transition.
// Implementations should return quickly.
//
// Example:
//
//	m := merger.New(
//	    merger.WithProgressCallback(func(p merger.Progress) {
//	        fmt.Printf("[%s] %d/%d %s\n", p.Phase, p.CurrentInput, p.TotalInputs, p.Source)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the merger.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Warn(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Warn logs a non-fatal finding such as a missing end-of-file record
	Warn(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
