package model

import "time"

type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// PipelineResult aggregates everything a run produced. Fields fill in
// stage by stage; on a mid-run failure the already-produced references
// are kept, never discarded.
type PipelineResult struct {
	Strategy Strategy `json:"strategy"`
	Image    Artifact `json:"image,omitzero"`
	Video    Artifact `json:"video,omitzero"`
	Audio    Artifact `json:"audio,omitzero"`
	Final    Artifact `json:"final,omitzero"`
}

// PipelineRun is one tracked invocation of the pipeline, as surfaced to
// front-ends.
type PipelineRun struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Status      RunStatus      `json:"status"`
	Stage       string         `json:"stage,omitempty"`
	Result      PipelineResult `json:"result"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
