package pipeline

import (
	"context"
	"time"
)

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageClone      StageName = "clone"
	StageValidate   StageName = "validate"
	StageStage      StageName = "stage"
	StageGenerate   StageName = "generate"
	StageDistribute StageName = "distribute"
)

// StageFunc is the body of a stage.
type StageFunc func(ctx context.Context, r *Run) error

// StageDef binds a name to its body.
type StageDef struct {
	Name StageName
	Fn   StageFunc
}

// StageResult classifies how a stage ended.
type StageResult string

const (
	ResultSuccess StageResult = "success"
	ResultFatal   StageResult = "fatal"
	ResultSkipped StageResult = "skipped"
)

// StageOutcome is the record of one stage in a run.
type StageOutcome struct {
	Stage    StageName
	Result   StageResult
	Duration time.Duration
	Err      error
}
