package eventsourcing

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// HandlerFunc handles one command: it validates the raw payload, builds the
// resulting envelopes and appends them to the store under the operation's
// precondition. Handlers are independent and safe to invoke concurrently;
// the store is the only shared state between them.
type HandlerFunc func(ctx context.Context, data json.RawMessage) error

// Middleware wraps a HandlerFunc at registration time.
type Middleware func(commandType string, next HandlerFunc) HandlerFunc

// Registry associates each command-type string with exactly one handler.
// It is constructed once at process start and passed by reference to the
// dispatch entry point.
type Registry struct {
	mu         sync.RWMutex
	log        logrus.FieldLogger
	handlers   map[string]HandlerFunc
	middleware []Middleware
	tracer     trace.Tracer
}

// NewRegistry creates an empty command registry. Middleware is applied to
// every handler at registration time, outermost first.
func NewRegistry(log logrus.FieldLogger, middleware ...Middleware) *Registry {
	return &Registry{
		log:        log,
		handlers:   make(map[string]HandlerFunc),
		middleware: middleware,
		tracer:     tracer(),
	}
}

// Register adds a handler for the given command type. Re-registration is
// allowed but never silent: the previous handler is overwritten and a
// warning is logged.
func (r *Registry) Register(commandType string, handler HandlerFunc) {
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](commandType, handler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[commandType]; exists {
		r.log.WithField("command", commandType).Warn("command already registered, overwriting")
	}
	r.handlers[commandType] = handler
}

// Dispatch looks up the handler for the command type and invokes it with
// the raw payload. An unregistered type fails with UnknownCommandError and
// never reaches the store; handler failures propagate unchanged.
func (r *Registry) Dispatch(ctx context.Context, commandType string, data json.RawMessage) error {
	r.mu.RLock()
	handler, exists := r.handlers[commandType]
	r.mu.RUnlock()

	ctx, span := r.tracer.Start(ctx, "command.dispatch",
		trace.WithAttributes(attribute.String("command.type", commandType)),
	)
	defer span.End()

	if !exists {
		err := &UnknownCommandError{Type: commandType}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		addCount(ctx, CommandsFailed, 1, attribute.String("command.type", commandType))
		return err
	}

	ctx = WithCommand(ctx, commandType)

	start := now()
	err := handler(ctx, data)
	elapsed := float64(time.Since(start).Milliseconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		addCount(ctx, CommandsFailed, 1, attribute.String("command.type", commandType))
		return err
	}

	addCount(ctx, CommandsHandled, 1, attribute.String("command.type", commandType))
	recordDuration(ctx, CommandsDuration, elapsed, attribute.String("command.type", commandType))
	return nil
}

// Types returns the sorted list of registered command types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func addCount(ctx context.Context, counter metric.Int64Counter, n int64, attrs ...attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

func recordDuration(ctx context.Context, hist metric.Float64Histogram, v float64, attrs ...attribute.KeyValue) {
	if hist != nil {
		hist.Record(ctx, v, metric.WithAttributes(attrs...))
	}
}
