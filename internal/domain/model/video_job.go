package model

// JobStatus is the remote video-generation job state as reported by the
// service. Unrecognized strings map to JobStatusUnknown, which the poll
// loop treats the same as "still running".
type JobStatus string

const (
	JobStatusSubmitted  JobStatus = "Submitted"
	JobStatusInProgress JobStatus = "InProgress"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusFailed     JobStatus = "Failed"
	JobStatusUnknown    JobStatus = "Unknown"
)

func ParseJobStatus(s string) JobStatus {
	switch JobStatus(s) {
	case JobStatusSubmitted, JobStatusInProgress, JobStatusCompleted, JobStatusFailed:
		return JobStatus(s)
	default:
		return JobStatusUnknown
	}
}

// Terminal reports whether the status ends the poll loop.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// VideoJob tracks one asynchronous video-generation invocation from
// submission until its output is resolved to an Artifact.
type VideoJob struct {
	InvocationID string
	Status       JobStatus
	// FailureMessage carries the service-supplied reason when Status is
	// Failed; empty otherwise.
	FailureMessage string
	// OutputPrefix is the storage prefix the service writes the finished
	// video under.
	OutputPrefix Artifact
}

// FailureReason returns the service-supplied failure message, or a
// placeholder when the service reported Failed without one.
func (j VideoJob) FailureReason() string {
	if j.FailureMessage != "" {
		return j.FailureMessage
	}
	return "unknown error"
}
