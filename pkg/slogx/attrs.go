package slogx

import (
	"fmt"
	"log/slog"
)

const (
	KeyError    = "error"
	KeyRunID    = "run_id"
	KeyProvider = "provider"
)

// Error returns an attribute holding the error message under the "error" key.
func Error(err error) slog.Attr {
	return slog.String(KeyError, err.Error())
}

// ByteString logs a byte slice as a string.
func ByteString(key string, value []byte) slog.Attr {
	return slog.String(key, string(value))
}

// Stringer logs the String() form of value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// RunID tags a log line with the invocation it belongs to.
func RunID(id fmt.Stringer) slog.Attr {
	return Stringer(KeyRunID, id)
}

// Provider tags a log line with the LLM vendor, anything with a String method works.
func Provider(name fmt.Stringer) slog.Attr {
	return Stringer(KeyProvider, name)
}
