package transcription

import (
	"context"

	"github.com/kbukum/quorumbot/provider"
)

// Provider turns a voice clip into text. IsAvailable from the embedded
// provider.Provider gates voice handling: when it is false the bot answers
// with a service error instead of calling Transcribe.
type Provider interface {
	provider.Provider
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// Tasks understood by Whisper servers.
const (
	TaskTranscribe = "transcribe"
	TaskTranslate  = "translate"
)

// Request holds one audio clip to transcribe.
type Request struct {
	// Audio is the raw file content, e.g. an OGG/Opus voice note.
	Audio []byte
	// FileName is sent as the multipart file name. Its extension lets the
	// server pick a decoder.
	FileName string
	// Language is the expected language (e.g. "en"). Empty means detect.
	Language string
	// Task is TaskTranscribe or TaskTranslate. Empty means TaskTranscribe.
	Task string
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
	// Task echoes the task that was run.
	Task string `json:"task,omitempty"`
	// Segments contains time-aligned transcript segments when the server
	// returns them.
	Segments []Segment `json:"segments,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
