package models

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"
)

func TestPasswordSetAndMatch(t *testing.T) {
	c := qt.New(t)

	var p Password
	c.Assert(p.Set("rosewater123"), qt.IsNil)
	c.Assert(p.Hash, qt.Not(qt.Equals), "rosewater123")

	ok, err := p.Matches("rosewater123")
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	ok, err = p.Matches("wrong")
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
}

func TestOrderTotalKeepsCents(t *testing.T) {
	c := qt.New(t)

	items := []OrderItem{
		{Quantity: 2, Price: decimal.RequireFromString("12.99")},
		{Quantity: 1, Price: decimal.RequireFromString("5.49")},
	}
	c.Assert(OrderTotal(items).String(), qt.Equals, "31.47")
	c.Assert(OrderTotal(nil).IsZero(), qt.IsTrue)
}

func TestOrderCancellable(t *testing.T) {
	c := qt.New(t)
	for _, st := range OrderStatuses {
		o := Order{Status: st}
		want := st == OrderPending || st == OrderConfirmed || st == OrderProcessing
		c.Assert(o.Cancellable(), qt.Equals, want, qt.Commentf("status %s", st))
	}
	c.Assert(IsValidOrderStatus("shipped"), qt.IsTrue)
	c.Assert(IsValidOrderStatus("lost"), qt.IsFalse)
}

func TestShadeAppliesTo(t *testing.T) {
	c := qt.New(t)

	s := Shade{CategoryIDs: []int64{1, 2}, ProductIDs: []int64{40}}
	c.Assert(s.AppliesTo(2, 0, 0), qt.IsTrue)
	c.Assert(s.AppliesTo(0, 0, 40), qt.IsTrue)
	c.Assert(s.AppliesTo(3, 7, 41), qt.IsFalse)
	c.Assert(s.AppliesTo(0, 0, 0), qt.IsFalse)
}

func TestUserHelpers(t *testing.T) {
	c := qt.New(t)
	u := User{FirstName: "Ava", LastName: "Stone", Role: RoleAdmin}
	c.Assert(u.FullName(), qt.Equals, "Ava Stone")
	c.Assert(u.IsAdmin(), qt.IsTrue)
}
