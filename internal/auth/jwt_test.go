package auth

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestTokenRoundTrip(t *testing.T) {
	c := qt.New(t)
	m, err := NewManager("test-secret", time.Hour)
	c.Assert(err, qt.IsNil)

	tok, err := m.GenerateToken(42, "admin")
	c.Assert(err, qt.IsNil)

	id, role, err := m.ValidateToken(tok)
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, int64(42))
	c.Assert(role, qt.Equals, "admin")
}

func TestExpiredToken(t *testing.T) {
	c := qt.New(t)
	m, err := NewManager("test-secret", time.Hour)
	c.Assert(err, qt.IsNil)

	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }
	tok, err := m.GenerateToken(1, "user")
	c.Assert(err, qt.IsNil)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, _, err = m.ValidateToken(tok)
	c.Assert(err, qt.ErrorMatches, ".*token is expired.*")
}

func TestWrongSecret(t *testing.T) {
	c := qt.New(t)
	a, _ := NewManager("secret-a", 0)
	b, _ := NewManager("secret-b", 0)

	tok, err := a.GenerateToken(1, "user")
	c.Assert(err, qt.IsNil)
	_, _, err = b.ValidateToken(tok)
	c.Assert(err, qt.Not(qt.IsNil))

	_, _, err = a.ValidateToken("not.a.token")
	c.Assert(err, qt.Not(qt.IsNil))

	_, err = NewManager("", 0)
	c.Assert(err, qt.ErrorMatches, "jwt secret is required")
}
