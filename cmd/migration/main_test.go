package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gitlab.com/dirk.krummacker/contactbook/internal/config"
)

// TestRunReturnsConnectionErrors expects that run reports a failure instead of exiting the
// process, so that its deferred cleanup runs.
func TestRunReturnsConnectionErrors(t *testing.T) {
	cfg := config.Defaults()
	cfg.Database.Driver = "sqlite"

	err := run(context.Background(), cfg, 10, zerolog.Nop())
	assert.ErrorContains(t, err, "sqlite")
}
