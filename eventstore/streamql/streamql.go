// Package streamql parses the minimal stream-query dialect the demo stores
// support:
//
//	STREAM e FROM events WHERE e.type == "X" [ORDER BY e.time ASC|DESC] MAP { key: e.data.field, ... }
//
// which is exactly the shape projections use to discover aggregates by
// their creation events. Anything else is rejected.
package streamql

import (
	"fmt"
	"regexp"
	"strings"

	eventsourcing "github.com/genesisdb/eventsourcing-demo"
)

// Query is the parsed form of one stream-query expression.
type Query struct {
	Alias      string
	EventType  string
	Descending bool
	Mapping    map[string]string // output key -> data field
}

var pattern = regexp.MustCompile(
	`^STREAM\s+(\w+)\s+FROM\s+events\s+WHERE\s+(\w+)\.type\s*==\s*"([^"]+)"` +
		`(?:\s+ORDER\s+BY\s+(\w+)\.time\s+(ASC|DESC))?` +
		`\s+MAP\s*\{\s*(.+?)\s*\}$`)

func Parse(expression string) (*Query, error) {
	match := pattern.FindStringSubmatch(strings.TrimSpace(expression))
	if match == nil {
		return nil, fmt.Errorf("unsupported query expression: %s", expression)
	}

	alias, whereAlias, eventType := match[1], match[2], match[3]
	orderAlias, direction, mapClause := match[4], match[5], match[6]

	if whereAlias != alias || (orderAlias != "" && orderAlias != alias) {
		return nil, fmt.Errorf("unknown alias in query expression: %s", expression)
	}

	mapping := make(map[string]string)
	for _, entry := range strings.Split(mapClause, ",") {
		key, value, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("malformed MAP entry %q", entry)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		field, ok := strings.CutPrefix(value, alias+".data.")
		if !ok || key == "" || field == "" {
			return nil, fmt.Errorf("malformed MAP entry %q", entry)
		}
		mapping[key] = field
	}

	return &Query{
		Alias:      alias,
		EventType:  eventType,
		Descending: direction != "ASC",
		Mapping:    mapping,
	}, nil
}

// Project maps one matching envelope onto a result row.
func (q *Query) Project(env *eventsourcing.Envelope) eventsourcing.Row {
	row := make(eventsourcing.Row, len(q.Mapping))
	for key, field := range q.Mapping {
		row[key] = env.Data[field]
	}
	return row
}
