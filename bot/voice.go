package bot

import (
	"context"
	"time"

	"github.com/kbukum/quorumbot/errors"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/transcription"
	"github.com/kbukum/quorumbot/transport"
)

// transcribe downloads and transcribes a voice message. ok is false when
// the message should not be routed; the user has been told why.
func (d *Dispatcher) transcribe(ctx context.Context, ev transport.Event) (string, bool) {
	log := d.log.WithContext(ctx)
	if d.Files == nil || d.Transcriber == nil {
		log.Debug("voice message ignored, transcription disabled", logger.Fields(logger.FieldChatID, ev.ChatID))
		return "", false
	}

	start := time.Now()
	data, name, err := d.Files.Download(ctx, ev.VoiceFileID)
	if err != nil {
		log.Error("voice download failed", logger.Fields(logger.FieldChatID, ev.ChatID, logger.FieldError, err.Error()))
		d.replyError(ctx, ev, errors.ExternalServiceError("telegram", err))
		return "", false
	}

	resp, err := d.Transcriber.Transcribe(ctx, transcription.Request{Audio: data, FileName: name})
	if err != nil {
		log.Error("transcription failed", logger.Fields(logger.FieldChatID, ev.ChatID, logger.FieldError, err.Error()))
		d.metrics.RecordError(ctx, "transcription", "bot")
		d.replyError(ctx, ev, errors.ExternalServiceError(d.Transcriber.Name(), err))
		return "", false
	}

	log.Info("voice message transcribed", logger.Fields(
		logger.FieldChatID, ev.ChatID,
		"language", resp.Language,
		"chars", len(resp.Text),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return resp.Text, resp.Text != ""
}
