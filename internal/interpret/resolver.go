package interpret

import (
	"context"
	"log/slog"
	"time"

	"rptedit/internal/command"
	"rptedit/internal/report"
)

// Interpreter maps an instruction plus document context text to a command.
type Interpreter interface {
	Interpret(ctx context.Context, instruction, editContext string) (command.Command, error)
}

// Resolver tries the NL interpreter first and falls back to the
// deterministic parser on any failure or invalid payload. Retry and backoff
// for the interpreter live here; the fallback parser never retries.
type Resolver struct {
	client Interpreter
	log    *slog.Logger
}

// NewResolver creates a resolver. client may be nil, in which case every
// instruction goes straight to the fallback parser.
func NewResolver(client Interpreter, log *slog.Logger) *Resolver {
	return &Resolver{client: client, log: log}
}

// Resolve turns an instruction into a validated command against doc.
func (r *Resolver) Resolve(ctx context.Context, instruction string, doc *report.Document) (command.Command, error) {
	if r.client != nil {
		editContext := BuildContext(doc)
		var lastErr error
		for attempt := 0; attempt < MaxRetries; attempt++ {
			cmd, err := r.client.Interpret(ctx, instruction, editContext)
			if err == nil {
				return cmd, nil
			}
			lastErr = err
			if !IsRetryable(err) || ctx.Err() != nil {
				break
			}
			select {
			case <-ctx.Done():
			case <-time.After(Backoff(attempt)):
			}
		}
		r.log.Warn("interpreter failed, using fallback parser", "error", lastErr)
	}
	return command.Fallback(instruction, doc)
}
