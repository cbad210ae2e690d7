package testutil

import (
	"io"

	"github.com/rs/zerolog"
)

// MakeNoopLogger returns a logger that discards everything
func MakeNoopLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}
