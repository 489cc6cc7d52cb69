package pipeline

import "time"

// Stage describes one phase of a check run.
type Stage string

const (
	// StageRegistry parses the registry file.
	StageRegistry Stage = "registry"
	// StageDocs audits explanation documents.
	StageDocs Stage = "docs"
	// StageTests audits regression fixtures.
	StageTests Stage = "tests"
	// StageUsage scans compiler sources for code usage.
	StageUsage Stage = "usage"
)

// Stages lists every stage in execution order.
func Stages() []Stage {
	return []Stage{StageRegistry, StageDocs, StageTests, StageUsage}
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the stage is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusError indicates the stage finished with error findings or failed.
	StatusError Status = "error"
)

// Event reports progress for a stage. File is set for per-file progress
// (StatusWorking only); stage transitions leave it empty.
type Event struct {
	Stage    Stage
	Status   Status
	File     string
	Files    int // files processed so far in this stage
	Findings int // findings reported so far in this stage
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}
