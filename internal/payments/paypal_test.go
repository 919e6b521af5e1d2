package payments

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/plutov/paypal/v4"
)

func TestNewPayPalGateway(t *testing.T) {
	c := qt.New(t)

	_, err := NewPayPalGateway("", "", "sandbox")
	c.Assert(err, qt.Equals, ErrDisabled)

	g, err := NewPayPalGateway("id", "secret", "sandbox")
	c.Assert(err, qt.IsNil)
	c.Assert(g.client.APIBase, qt.Equals, paypal.APIBaseSandBox)

	g, err = NewPayPalGateway("id", "secret", "live")
	c.Assert(err, qt.IsNil)
	c.Assert(g.client.APIBase, qt.Equals, paypal.APIBaseLive)
}
