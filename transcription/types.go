package transcription

// TranscriptionRequest holds parameters for a transcription call.
type TranscriptionRequest struct {
	// AudioPath is the path to the audio file to transcribe.
	AudioPath string `json:"audio_path"`
	// Language is the expected language of the audio (e.g. "en"). Empty
	// lets the backend detect it.
	Language string `json:"language,omitempty"`
	// Model overrides the backend's configured model.
	Model string `json:"model,omitempty"`
}

// TranscriptionResponse holds the result of a transcription call.
type TranscriptionResponse struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}

// Segment is a time-aligned portion of a transcript. Times are in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// AudioDuration returns Duration, or the end of the last segment when the
// backend did not report one.
func (r *TranscriptionResponse) AudioDuration() float64 {
	if r.Duration > 0 || len(r.Segments) == 0 {
		return r.Duration
	}
	return r.Segments[len(r.Segments)-1].End
}
