package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"ad-video-pipeline/internal/domain/ports/adapter"
)

var _ adapter.Muxer = (*FFmpegMuxer)(nil)

// FFmpegMuxer implements adapter.Muxer by shelling out to ffmpeg and
// ffprobe.
type FFmpegMuxer struct {
	ffmpegBin  string
	ffprobeBin string
	crf        int
	maxRate    string
	bufSize    string
}

func NewFFmpegMuxer(ffmpegBin, ffprobeBin string, crf int, maxRate, bufSize string) (*FFmpegMuxer, error) {
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	if _, err := exec.LookPath(ffprobeBin); err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}
	return &FFmpegMuxer{
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
		crf:        crf,
		maxRate:    maxRate,
		bufSize:    bufSize,
	}, nil
}

func (f *FFmpegMuxer) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.ffprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: bad duration %q", path, out)
	}
	return d, nil
}

func (f *FFmpegMuxer) Mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	videoDur, err := f.Duration(ctx, videoPath)
	if err != nil {
		return err
	}
	audioDur, err := f.Duration(ctx, audioPath)
	if err != nil {
		return err
	}

	args := muxArgs(videoPath, audioPath, outPath, videoDur, audioLoops(videoDur, audioDur), f.crf, f.maxRate, f.bufSize)
	cmd := exec.CommandContext(ctx, f.ffmpegBin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux: %w: %s", err, out)
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("ffmpeg mux: output not created: %w", err)
	}
	return nil
}

// audioLoops returns how many plays of the audio are needed to cover the
// video. 1 means the audio is long enough already and only gets cut.
func audioLoops(videoDur, audioDur float64) int {
	if audioDur <= 0 || audioDur >= videoDur {
		return 1
	}
	return int(videoDur/audioDur) + 1
}

// muxArgs builds the ffmpeg invocation implementing the duration policy:
// the audio is looped when shorter than the video and always cut at the
// video's duration, so the output length equals the source video length.
func muxArgs(videoPath, audioPath, outPath string, videoDur float64, loops, crf int, maxRate, bufSize string) []string {
	args := []string{"-y", "-i", videoPath}
	if loops > 1 {
		// -stream_loop counts extra plays and applies to the next input.
		args = append(args, "-stream_loop", strconv.Itoa(loops-1))
	}
	args = append(args, "-i", audioPath,
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "libx264", "-preset", "ultrafast", "-crf", strconv.Itoa(crf),
		"-maxrate", maxRate, "-bufsize", bufSize,
		"-c:a", "aac",
		"-t", strconv.FormatFloat(videoDur, 'f', 3, 64),
		outPath,
	)
	return args
}
