package history

import "gorm.io/gorm"

// Outcome of a single smoke probe.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
)

// Run is one recorded smoke-test invocation.
type Run struct {
	gorm.Model
	RunID            string  `gorm:"size:36;uniqueIndex:idx_runs_run_id;not null"`
	Endpoint         string  `gorm:"size:512;index:idx_runs_target;not null"`
	TargetModel      string  `gorm:"column:model;size:255;index:idx_runs_target;not null"`
	Outcome          Outcome `gorm:"size:32;index;not null"`
	StatusCode       int
	Error            string `gorm:"type:text"`
	CompletionID     string `gorm:"size:255"`
	ResponseModel    string `gorm:"size:255"`
	FinishReason     string `gorm:"size:64"`
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	DurationMillis   int64
	ShapeFingerprint string `gorm:"size:64"`
}

// TableName defines the table name for the Run model.
func (Run) TableName() string {
	return "runs"
}

// Succeeded reports whether the run produced a response.
func (r Run) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}
