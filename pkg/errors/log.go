package errors

import (
	"github.com/go-drift/elements/pkg/log"
)

// LogHandler is an ErrorHandler that writes errors through the log package.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs an ElementError.
func (h *LogHandler) HandleError(err *ElementError) {
	if err == nil {
		return
	}
	fields := []any{"op", err.Op, "kind", err.Kind}
	if err.Tag != "" {
		fields = append(fields, "tag", err.Tag)
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, "stack", err.StackTrace)
	}
	log.ErrorErr(log.CatCore, "element error", err.Err, fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, "stack", err.StackTrace)
	}
	log.Error(log.CatLoop, "recovered panic", fields...)
}

// HandleRenderError logs a RenderError.
func (h *LogHandler) HandleRenderError(err *RenderError) {
	if err == nil {
		return
	}
	fields := []any{"tag", err.Tag, "id", err.ID}
	if err.Recovered != nil {
		fields = append(fields, "panic", err.Recovered)
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, "stack", err.StackTrace)
	}
	log.ErrorErr(log.CatScheduler, "render pass failed", err.Err, fields...)
}
