package uuidx

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RunID identifies a single personality invocation. It is a version 7 UUID so
// ids sort by the time the run started.
type RunID uuid.UUID

// NewRunID generates a run id, it panics when the random source fails.
func NewRunID() RunID {
	return RunID(uuid.Must(uuid.NewV7()))
}

func (r RunID) String() string {
	return uuid.UUID(r).String()
}

// Started returns the millisecond timestamp embedded in the id.
func (r RunID) Started() time.Time {
	sec, nsec := uuid.UUID(r).Time().UnixTime()
	return time.Unix(sec, nsec)
}

func (r RunID) LogValue() slog.Value {
	return slog.StringValue(r.String())
}
