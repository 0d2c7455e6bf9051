package model

import "fmt"

// Strategy is the generated triple driving the rest of a run: a prompt
// for the reference image, a prompt for the video job, and the voiceover
// script. All three fields are always non-empty; callers that fail to
// generate one substitute FallbackStrategy instead.
type Strategy struct {
	ImagePrompt string `json:"image_prompt"`
	VideoPrompt string `json:"video_prompt"`
	AudioScript string `json:"audio_script"`
}

func (s Strategy) Validate() error {
	if s.ImagePrompt == "" {
		return fmt.Errorf("strategy: empty image_prompt")
	}
	if s.VideoPrompt == "" {
		return fmt.Errorf("strategy: empty video_prompt")
	}
	if s.AudioScript == "" {
		return fmt.Errorf("strategy: empty audio_script")
	}
	return nil
}

// FallbackStrategy builds a deterministic strategy from the raw ad
// description. Used whenever text generation fails or returns something
// unparseable, so strategy generation as a whole never fails.
func FallbackStrategy(description string) Strategy {
	return Strategy{
		ImagePrompt: fmt.Sprintf("Professional commercial photograph of %s, high quality, 1280x720, cinematic lighting, marketing style", description),
		VideoPrompt: fmt.Sprintf("Create a 6-second commercial video about %s, professional quality, smooth camera movement, engaging visuals", description),
		AudioScript: fmt.Sprintf("Discover the amazing %s. Experience the difference today!", description),
	}
}
