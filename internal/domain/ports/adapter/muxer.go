package adapter

import "context"

// Muxer is the port for local audio/video processing. The implementation
// shells out to ffmpeg/ffprobe; tests substitute fakes.
type Muxer interface {
	// Duration probes the media file's duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// Mux combines videoPath and audioPath into outPath. The audio track
	// is looped and/or truncated so the output duration equals the video
	// duration exactly; the video is never altered in length.
	Mux(ctx context.Context, videoPath, audioPath, outPath string) error
}
