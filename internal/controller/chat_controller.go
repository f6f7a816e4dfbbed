package controller

import (
	"bufio"
	"context"
	"errors"
	"io"

	"cv-chat-be/internal/dto"
	"cv-chat-be/internal/metrics"
	"cv-chat-be/internal/pkg/apperror"
	"cv-chat-be/internal/pkg/serverutils"
	"cv-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
}

// Chat answers one visitor turn as a plain-text stream. Errors before the
// first byte are rendered by the error middleware; after that the stream is
// the response.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		metrics.RecordTurn(metrics.OutcomeRejected)
		return serverutils.BadBody(err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		metrics.RecordTurn(metrics.OutcomeRejected)
		return err
	}

	// The stream outlives the handler, so generation gets its own cancel
	// instead of the request context.
	genCtx, cancel := context.WithCancel(context.WithoutCancel(ctx.UserContext()))

	turn, err := c.service.StartTurn(genCtx, &req)
	if err != nil {
		cancel()
		metrics.RecordTurn(outcomeOf(err))
		return err
	}

	ctx.Status(fiber.StatusOK)
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("X-Accel-Buffering", "no")

	// fiber.Ctx must not be touched inside the writer.
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		pump(genCtx, turn, w)
	})
	return nil
}

// pump forwards chunks as they arrive and resolves the turn. A failed flush
// means the client is gone.
func pump(ctx context.Context, turn *service.TurnStream, w *bufio.Writer) {
	for {
		chunk, err := turn.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			metrics.RecordTurn(metrics.OutcomeStreamError)
			turn.Abort(err)
			return
		}

		if _, err := w.WriteString(chunk); err != nil {
			metrics.RecordTurn(metrics.OutcomeDisconnect)
			turn.Abort(err)
			return
		}
		if err := w.Flush(); err != nil {
			metrics.RecordTurn(metrics.OutcomeDisconnect)
			turn.Abort(err)
			return
		}
		metrics.RecordChunks(1)
	}

	metrics.RecordTurn(metrics.OutcomeCompleted)
	// the reply is already delivered; a failed write is only logged
	_ = turn.Complete(ctx)
}

func outcomeOf(err error) string {
	if apperror.KindOf(err) == apperror.KindValidation {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeFailed
}
