// Package transcription defines the speech-to-text provider the bot uses to
// turn voice messages into questions.
//
// # Backends
//
//   - transcription/whisper: a Whisper HTTP sidecar (POST /transcribe)
package transcription
