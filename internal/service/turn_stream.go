package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"cv-chat-be/internal/entity"
	"cv-chat-be/internal/pkg/logger"
	"cv-chat-be/pkg/llm"
)

var ErrTurnNotFinished = errors.New("generation stream has not finished")

// TurnStream forwards generated chunks and remembers the full reply. Complete
// is the continuation that stores the reply once the stream ended naturally.
// A TurnStream is used by a single goroutine.
type TurnStream struct {
	sessionId  string
	stream     llm.Stream
	messageLog IMessageLog
	logger     logger.ILogger

	text     strings.Builder
	chunks   int
	finished bool
}

func newTurnStream(sessionId string, stream llm.Stream, messageLog IMessageLog, log logger.ILogger) *TurnStream {
	return &TurnStream{
		sessionId:  sessionId,
		stream:     stream,
		messageLog: messageLog,
		logger:     log,
	}
}

// Recv returns the next chunk, io.EOF at the natural end, or the upstream error.
func (t *TurnStream) Recv() (string, error) {
	if t.finished {
		return "", io.EOF
	}

	chunk, err := t.stream.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			t.finished = true
			return "", io.EOF
		}
		return "", err
	}

	t.chunks++
	t.text.WriteString(chunk)
	return chunk, nil
}

// Text is the reply received so far.
func (t *TurnStream) Text() string {
	return t.text.String()
}

func (t *TurnStream) Chunks() int {
	return t.chunks
}

func (t *TurnStream) SessionId() string {
	return t.sessionId
}

// Complete persists the assistant reply. Failures are logged and returned but
// never alter the response that was already sent.
func (t *TurnStream) Complete(ctx context.Context) error {
	defer t.Close()

	if !t.finished {
		return ErrTurnNotFinished
	}

	ctx, span := chatTracer.Start(ctx, "chat.persist_assistant")
	defer span.End()

	if _, err := t.messageLog.Append(ctx, t.sessionId, entity.MessageRoleAssistant, t.Text()); err != nil {
		span.RecordError(err)
		t.logger.Error(chatModule, "Failed to save assistant message", map[string]interface{}{
			"operation":  "chat.persist_assistant",
			"session_id": t.sessionId,
			"error":      err,
		})
		return err
	}
	return nil
}

// Abort ends a turn that will not be persisted.
func (t *TurnStream) Abort(reason error) {
	t.logger.Warn(chatModule, "Turn aborted, assistant message not saved", map[string]interface{}{
		"operation":  "chat.stream",
		"session_id": t.sessionId,
		"chunks":     t.chunks,
		"reason":     reason.Error(),
	})
	_ = t.Close()
}

func (t *TurnStream) Close() error {
	return t.stream.Close()
}
