package logging

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	eventsourcing "github.com/genesisdb/eventsourcing-demo"
)

// CommandLogging returns registry middleware that logs one line per
// dispatched command, naming the action and the aggregate identifiers
// found in the payload. Failures are logged with their error.
func CommandLogging(logger logrus.FieldLogger) eventsourcing.Middleware {
	return func(commandType string, next eventsourcing.HandlerFunc) eventsourcing.HandlerFunc {
		return func(ctx context.Context, data json.RawMessage) error {
			entry := logger.WithField("command", commandType)
			for key, value := range identifiers(data) {
				entry = entry.WithField(key, value)
			}
			if id := eventsourcing.CommandIDFromContext(ctx); id != uuid.Nil {
				entry = entry.WithField("dispatchId", id.String())
			}

			err := next(ctx, data)
			if err != nil {
				entry.WithError(err).Error("command failed")
				return err
			}

			entry.Info("command executed")
			return nil
		}
	}
}

// identifiers extracts the top-level *Id string fields of a command
// payload, enough to name the aggregate (cartId, productId, memberId, ...).
func identifiers(data json.RawMessage) map[string]string {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}

	ids := make(map[string]string)
	for key, value := range payload {
		if !strings.HasSuffix(key, "Id") {
			continue
		}
		if s, ok := value.(string); ok {
			ids[key] = s
		}
	}
	return ids
}
