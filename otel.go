package eventsourcing

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/genesisdb/eventsourcing-demo"

var (
	meter metric.Meter

	// Command metrics
	CommandsHandled  metric.Int64Counter
	CommandsFailed   metric.Int64Counter
	CommandsDuration metric.Float64Histogram

	// Event metrics
	EventsAppended metric.Int64Counter
	EventsLoaded   metric.Int64Counter

	// Projection metrics
	ProjectionsComputed metric.Int64Counter
	ProjectionsDuration metric.Float64Histogram

	// Initialization
	once        sync.Once
	initErr     error
	initialized bool
)

func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Init initializes the global metrics. Call this once at application
// startup; until then all instruments are nil and recording is skipped.
func Init() error {
	once.Do(func() {
		meter = otel.Meter(instrumentationName)
		initErr = initializeMetrics()
		if initErr == nil {
			initialized = true
		}
	})
	return initErr
}

func initializeMetrics() error {
	var err error

	CommandsHandled, err = meter.Int64Counter(
		"eventsourcing.commands.handled",
		metric.WithDescription("Number of commands handled"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return err
	}

	CommandsFailed, err = meter.Int64Counter(
		"eventsourcing.commands.failed",
		metric.WithDescription("Number of commands that failed"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return err
	}

	CommandsDuration, err = meter.Float64Histogram(
		"eventsourcing.commands.duration",
		metric.WithDescription("Command handling duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	if err != nil {
		return err
	}

	EventsAppended, err = meter.Int64Counter(
		"eventsourcing.events.appended",
		metric.WithDescription("Number of events appended to streams"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	EventsLoaded, err = meter.Int64Counter(
		"eventsourcing.events.loaded",
		metric.WithDescription("Number of events loaded from streams"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	ProjectionsComputed, err = meter.Int64Counter(
		"eventsourcing.projections.computed",
		metric.WithDescription("Number of projection folds computed"),
		metric.WithUnit("{projection}"),
	)
	if err != nil {
		return err
	}

	ProjectionsDuration, err = meter.Float64Histogram(
		"eventsourcing.projections.duration",
		metric.WithDescription("Projection fold duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	if err != nil {
		return err
	}

	return nil
}

// IsInitialized returns whether metrics have been initialized.
func IsInitialized() bool {
	return initialized
}

// MustInit initializes metrics and panics on error. Use this in main() for
// fail-fast behavior.
func MustInit() {
	if err := Init(); err != nil {
		panic("failed to initialize metrics: " + err.Error())
	}
}
