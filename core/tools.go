package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/tools"
)

// SystemErrorMessage is returned in place of a tool result whenever
// something below the tool failed.
const SystemErrorMessage = "There was a system error, please try again."

const endedMessage = "This conversation has ended."

// CallTool runs call against the conversation's tools and returns the text
// to narrate. It never fails: unknown tools, bad arguments and system
// errors all come back as text. Calls run one at a time in arrival order,
// and any records they write are durable when CallTool returns.
func (c *Conversation) CallTool(ctx context.Context, call tools.Call) string {
	var result string
	ran := c.submit(ctx, func(ctx context.Context) {
		result = c.callTool(ctx, call)
	})
	if !ran {
		if c.Ended() {
			return endedMessage
		}
		return SystemErrorMessage
	}
	return result
}

func (c *Conversation) callTool(ctx context.Context, call tools.Call) string {
	name := string(call.Name)
	ctx, span := tracer.Start(ctx, "execute tool")
	defer span.End()
	span.SetAttributes(
		attribute.String("tool.name", name),
		attribute.String("conversation.id", c.id),
		attribute.String("assistant", string(c.kind)),
	)
	c.emit(events.NewToolCallStarted(c.id, call.ID, name, string(call.Arguments)))

	var (
		result  string
		toolErr error
	)
	err := runTool(ctx, name, func(ctx context.Context) error {
		result, toolErr = c.registry.Execute(ctx, call.Name, call.Arguments)
		return toolErr
	})

	outcome := "ok"
	switch {
	case err == nil:
		c.emit(events.NewToolCallCompleted(c.id, call.ID, name, result))
		c.countToolCall(ctx, name, outcome)
		return result
	case errors.Is(err, tools.ErrToolNotFound):
		outcome = "unknown_tool"
		result = fmt.Sprintf("Unknown tool %q. Available tools: %s.", name, c.toolNames())
	case errors.Is(err, tools.ErrInvalidArguments):
		outcome = "invalid_arguments"
		detail := strings.TrimPrefix(toolErr.Error(), tools.ErrInvalidArguments.Error()+": ")
		result = fmt.Sprintf("Invalid arguments for %s: %s. Check the parameters and try again.", name, detail)
	case errors.Is(err, errToolPanicked):
		outcome = "panic"
		result = SystemErrorMessage
	default:
		outcome = "error"
		result = SystemErrorMessage
		logger.ErrorContext(ctx, "tool failed", "conversation.id", c.id, "tool.name", name, "error", err)
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.emit(events.NewToolCallFailed(c.id, call.ID, name, err.Error(), result))
	c.countToolCall(ctx, name, outcome)
	return result
}

func (c *Conversation) toolNames() string {
	names := c.registry.Names()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, string(name))
	}
	return strings.Join(parts, ", ")
}

func (c *Conversation) countToolCall(ctx context.Context, name, outcome string) {
	counter := c.orchestrator.toolCalls
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("assistant", string(c.kind)),
		attribute.String("outcome", outcome),
	))
}
