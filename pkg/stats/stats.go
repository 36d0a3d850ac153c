// Package stats records operational counters for a gobtree instance.
// Statistics are a collaborator the core engine calls out to, never a
// dependency the engine reaches into; a caller that doesn't want metrics
// passes NoopRecorder and pays nothing for it.
package stats

import "time"

// Recorder observes tree operations. Every method must be safe to call
// from the tree's single writer goroutine and from concurrent readers.
type Recorder interface {
	RecordInsert(duration time.Duration, split bool)
	RecordFind(duration time.Duration, hit bool)
	RecordDelete(duration time.Duration, marked int)
	SetResidentNodes(n int)
}

// NoopRecorder discards every observation. It is the default so embedding
// a Recorder hook never forces a Prometheus dependency on a caller that
// doesn't want one.
type NoopRecorder struct{}

func (NoopRecorder) RecordInsert(time.Duration, bool)  {}
func (NoopRecorder) RecordFind(time.Duration, bool)    {}
func (NoopRecorder) RecordDelete(time.Duration, int)   {}
func (NoopRecorder) SetResidentNodes(int)              {}
