package telemetry

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestInitTracerDisabled(t *testing.T) {
	c := qt.New(t)
	shutdown, err := InitTracer(context.Background(), "", "test", "test")
	c.Assert(err, qt.IsNil)
	c.Assert(shutdown(context.Background()), qt.IsNil)
}
