package eventsourcing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Applier mutates a projection accumulator with one event of a fixed type.
type Applier[S any] struct {
	eventType string
	apply     func(state *S, env *Envelope)
}

// On creates a typed applier for one event type. The envelope's data map is
// decoded into the payload type T before fn runs; envelopes whose payload
// cannot be decoded are skipped, the fold never fails mid-stream.
func On[S any, T any](eventType string, fn func(state *S, data T, env *Envelope)) Applier[S] {
	return Applier[S]{
		eventType: eventType,
		apply: func(state *S, env *Envelope) {
			var data T
			if err := env.DecodeData(&data); err != nil {
				return
			}
			fn(state, data, env)
		},
	}
}

// Projection deterministically reduces an ordered event stream into the
// current aggregate snapshot. It starts from the domain's zero-state,
// dispatches each event to its applier in stream order (unknown types are
// skipped), then recomputes every derived field in finalize. Nothing is
// cached between calls: state is always a pure function of the stream.
type Projection[S any] struct {
	domain      string
	createdType string
	idField     string
	init        func(id string) S
	finalize    func(state *S)
	appliers    map[string]func(state *S, env *Envelope)
	tracer      trace.Tracer
}

// NewProjection builds the fold for one domain. createdType/idField drive
// the "list all" discovery query. Panics on duplicate appliers; fold tables
// are assembled once at process start.
func NewProjection[S any](
	domain, createdType, idField string,
	init func(id string) S,
	finalize func(state *S),
	appliers ...Applier[S],
) *Projection[S] {
	m := make(map[string]func(*S, *Envelope), len(appliers))
	for _, a := range appliers {
		if _, exists := m[a.eventType]; exists {
			panic(fmt.Sprintf("duplicate applier for event type %s", a.eventType))
		}
		m[a.eventType] = a.apply
	}

	return &Projection[S]{
		domain:      domain,
		createdType: createdType,
		idField:     idField,
		init:        init,
		finalize:    finalize,
		appliers:    m,
		tracer:      tracer(),
	}
}

// State folds the aggregate's stream into its current snapshot. The second
// return value reports existence: an empty stream is a valid absent-state
// result, not an error.
func (p *Projection[S]) State(ctx context.Context, store Store, id string) (S, bool, error) {
	var zero S
	subject := Subject(p.domain, id)

	ctx, span := p.tracer.Start(ctx, "projection.fold",
		trace.WithAttributes(attribute.String("subject", subject)),
	)
	defer span.End()

	start := now()

	iter, err := store.ReadStream(ctx, subject)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, false, fmt.Errorf("project %s: %w", subject, err)
	}

	state := p.init(id)
	count := int64(0)
	for iter.Next(ctx) {
		env := iter.Value()
		if apply, ok := p.appliers[env.Type]; ok {
			apply(&state, env)
		}
		count++
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, false, fmt.Errorf("project %s: %w", subject, err)
	}

	if count == 0 {
		return zero, false, nil
	}

	if p.finalize != nil {
		p.finalize(&state)
	}

	addCount(ctx, EventsLoaded, count, attribute.String("domain", p.domain))
	addCount(ctx, ProjectionsComputed, 1, attribute.String("domain", p.domain))
	recordDuration(ctx, ProjectionsDuration, float64(time.Since(start).Milliseconds()),
		attribute.String("domain", p.domain))

	return state, true, nil
}

// All discovers every aggregate of the domain through its creation-event
// query and folds each stream independently. O(number of aggregates) stream
// reads; fine at demo scale.
func (p *Projection[S]) All(ctx context.Context, store Store) ([]S, error) {
	rows, err := store.Query(ctx, p.CreatedQuery())
	if err != nil {
		return nil, fmt.Errorf("list %s aggregates: %w", p.domain, err)
	}

	states := make([]S, 0, len(rows))
	for _, row := range rows {
		id, _ := row["id"].(string)
		if id == "" {
			continue
		}
		state, found, err := p.State(ctx, store, id)
		if err != nil {
			return nil, err
		}
		if found {
			states = append(states, state)
		}
	}
	return states, nil
}

// History returns the aggregate's raw envelopes in append order.
func (p *Projection[S]) History(ctx context.Context, store Store, id string) ([]*Envelope, error) {
	subject := Subject(p.domain, id)
	iter, err := store.ReadStream(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", subject, err)
	}
	return iter.All(ctx)
}

// CreatedQuery is the discovery expression for "list all" views, newest
// first by convention.
func (p *Projection[S]) CreatedQuery() string {
	return fmt.Sprintf(
		`STREAM e FROM events WHERE e.type == %q ORDER BY e.time DESC MAP { id: e.data.%s }`,
		p.createdType, p.idField,
	)
}
