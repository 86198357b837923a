package handlers

import (
	"context"
	"errors"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/futig/prompt-enhancer/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// HandlerError pairs an error with the text shown to the user
type HandlerError struct {
	Err         error
	UserMessage string
	Severity    ErrorSeverity
}

func classifyHandlerError(err error) *HandlerError {
	switch {
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrInvalidParameter):
		return &HandlerError{Err: err, UserMessage: render.ErrEmptyPrompt, Severity: SeverityWarning}
	case errors.Is(err, entity.ErrMissingAPIKey):
		return &HandlerError{Err: err, UserMessage: render.ErrNotConfigured, Severity: SeverityError}
	case errors.Is(err, entity.ErrUpstream), errors.Is(err, entity.ErrEmptyCompletion):
		return &HandlerError{Err: err, UserMessage: render.ErrModelUnavailable, Severity: SeverityError}
	case errors.Is(err, entity.ErrParse):
		return &HandlerError{Err: err, UserMessage: render.ErrUnreadableAnswer, Severity: SeverityWarning}
	default:
		return &HandlerError{Err: err, UserMessage: render.ErrGeneric, Severity: SeverityError}
	}
}

// reportError logs err and tells the user what went wrong
func reportError(ctx context.Context, sender *MessageSender, chatID int64, err error) {
	herr := classifyHandlerError(err)

	fields := []zap.Field{
		zap.Error(herr.Err),
		zap.Int64("chat_id", chatID),
		zap.String("severity", herr.Severity.String()),
	}
	if herr.Severity == SeverityWarning {
		ctxzap.Warn(ctx, "handler failed", fields...)
	} else {
		ctxzap.Error(ctx, "handler failed", fields...)
	}

	_ = sender.Send(chatID, herr.UserMessage, "")
}
