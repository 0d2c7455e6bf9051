package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidLocator  = errors.New("invalid artifact locator")
	ErrRunNotFound     = errors.New("pipeline run not found")
	ErrRateLimited     = errors.New("too many run submissions")

	// Video job errors. ErrJobFailed means the service reported a
	// terminal failure; ErrJobTimedOut means we hit the poll ceiling
	// while the remote job was still running; ErrOutputMissing means the
	// job claims success but left nothing discoverable in storage.
	ErrJobFailed     = errors.New("video generation job failed")
	ErrJobTimedOut   = errors.New("video generation job timed out")
	ErrOutputMissing = errors.New("job completed but no output artifact found")
)
