package logger

import "time"

// Keys used across the bot's log lines. Prefer these to ad hoc strings so
// lines about one chat or backend can be filtered together.
const (
	FieldComponent = "component"
	FieldEventID   = "event_id"
	FieldChatID    = "chat_id"
	FieldMessageID = "message_id"
	FieldUserID    = "user_id"
	FieldBackend   = "backend"
	FieldModel     = "model"
	FieldCommand   = "command"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields pairs up its arguments as key, value. A pair whose key is not a
// string is skipped, and so is a trailing unpaired value.
//
//	log.Info("backend answered", logger.Fields(logger.FieldBackend, "grok", "chars", 812))
func Fields(kv ...any) map[string]any {
	out := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			out[k] = kv[i+1]
		}
	}
	return out
}

// DurationFields names op and how long it took in milliseconds.
func DurationFields(op string, d time.Duration) map[string]any {
	return map[string]any{FieldOperation: op, FieldDuration: d.Milliseconds()}
}
