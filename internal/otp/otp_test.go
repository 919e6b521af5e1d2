package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

type recordingMailer struct {
	to, code string
	err      error
}

func (m *recordingMailer) SendOTP(_ context.Context, to, code string) error {
	m.to, m.code = to, code
	return m.err
}

type recordingSMS struct{ phone, message string }

func (r *recordingSMS) SendSMS(_ context.Context, phone, message string) error {
	r.phone, r.message = phone, message
	return nil
}

func newService(mailer EmailSender, sms SMSSender) (*Service, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := New(Options{Static: true}, mailer, sms, nil)
	s.SetClock(clock.now)
	return s, clock
}

func TestMobileOTPStaticCode(t *testing.T) {
	c := qt.New(t)
	sms := &recordingSMS{}
	s, clock := newService(nil, sms)
	ctx := context.Background()

	res, err := s.SendMobileOTP(ctx, "+91 98765-43210")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Key, qt.Equals, "9876543210")
	c.Assert(res.Delivered, qt.IsTrue)
	c.Assert(sms.phone, qt.Equals, "9876543210")
	c.Assert(sms.message, qt.Contains, StaticCode)

	c.Assert(s.VerifyMobileOTP("9876543210", "123456"), qt.IsNil)
	c.Assert(s.IsVerified("9876543210"), qt.IsTrue)
	// A verified code may be checked again until it is replaced.
	c.Assert(s.VerifyMobileOTP("9876543210", "123456"), qt.IsNil)

	clock.advance(5*time.Minute + time.Second)
	c.Assert(s.VerifyMobileOTP("9876543210", "123456"), qt.Equals, ErrExpired)
	c.Assert(ErrExpired.Error(), qt.Equals, "OTP has expired")
	c.Assert(s.VerifyMobileOTP("9876543210", "123456"), qt.Equals, ErrNotFound)
}

func TestEmailOTP(t *testing.T) {
	c := qt.New(t)
	mailer := &recordingMailer{}
	s, _ := newService(mailer, nil)
	ctx := context.Background()

	c.Assert(s.VerifyOTP("a@b.co", "123456"), qt.Equals, ErrNotFound)

	res, err := s.SendOTP(ctx, "  Shopper@Example.COM ")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Key, qt.Equals, "shopper@example.com")
	c.Assert(res.Delivered, qt.IsTrue)
	c.Assert(mailer.code, qt.Equals, StaticCode)

	c.Assert(s.VerifyOTP("shopper@example.com", "000000"), qt.Equals, ErrInvalid)
	c.Assert(s.VerifyOTP("SHOPPER@example.com", "123456"), qt.IsNil)
	c.Assert(s.IsVerified("shopper@example.com"), qt.IsTrue)

	_, err = s.SendOTP(ctx, "not-an-email")
	c.Assert(err, qt.Equals, ErrInvalidEmail)
}

func TestDeliveryFailureIsReported(t *testing.T) {
	c := qt.New(t)
	mailer := &recordingMailer{err: errors.New("smtp down")}
	s, _ := newService(mailer, nil)

	res, err := s.SendOTP(context.Background(), "x@example.com")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Delivered, qt.IsFalse)
	c.Assert(s.VerifyOTP("x@example.com", StaticCode), qt.IsNil)
}

func TestTooManyAttempts(t *testing.T) {
	c := qt.New(t)
	s, _ := newService(nil, &recordingSMS{})

	_, err := s.SendMobileOTP(context.Background(), "9876543210")
	c.Assert(err, qt.IsNil)
	for i := 0; i < 4; i++ {
		c.Assert(s.VerifyMobileOTP("9876543210", "111111"), qt.Equals, ErrInvalid)
	}
	c.Assert(s.VerifyMobileOTP("9876543210", "111111"), qt.Equals, ErrTooManyAttempts)
	c.Assert(s.VerifyMobileOTP("9876543210", StaticCode), qt.Equals, ErrNotFound)
}

func TestSendThrottle(t *testing.T) {
	c := qt.New(t)
	s, clock := newService(nil, &recordingSMS{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.SendMobileOTP(ctx, "9876543210")
		c.Assert(err, qt.IsNil)
	}
	_, err := s.SendMobileOTP(ctx, "9876543210")
	c.Assert(err, qt.Equals, ErrRateLimited)

	// Other numbers are unaffected.
	_, err = s.SendMobileOTP(ctx, "9123456789")
	c.Assert(err, qt.IsNil)

	clock.advance(30 * time.Second)
	_, err = s.SendMobileOTP(ctx, "9876543210")
	c.Assert(err, qt.IsNil)
}

func TestSweep(t *testing.T) {
	c := qt.New(t)
	s, clock := newService(nil, &recordingSMS{})

	_, err := s.SendMobileOTP(context.Background(), "9876543210")
	c.Assert(err, qt.IsNil)
	c.Assert(s.Sweep(), qt.Equals, 0)

	clock.advance(11 * time.Minute)
	c.Assert(s.Sweep(), qt.Equals, 1)
	c.Assert(s.IsVerified("9876543210"), qt.IsFalse)
	c.Assert(s.VerifyMobileOTP("9876543210", "123456"), qt.Equals, ErrNotFound)
}

func TestSweepKeepsRecentlyExpired(t *testing.T) {
	c := qt.New(t)
	s, clock := newService(nil, &recordingSMS{})

	_, err := s.SendMobileOTP(context.Background(), "9876543210")
	c.Assert(err, qt.IsNil)

	clock.advance(6 * time.Minute)
	c.Assert(s.Sweep(), qt.Equals, 0)
	c.Assert(s.VerifyMobileOTP("9876543210", "123456"), qt.Equals, ErrExpired)
}

func TestNormalizePhone(t *testing.T) {
	c := qt.New(t)
	got, err := NormalizePhone("(987) 654-3210")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "9876543210")

	_, err = NormalizePhone("12345")
	c.Assert(err, qt.Equals, ErrInvalidPhone)
}

func TestRandomCodes(t *testing.T) {
	c := qt.New(t)
	s := New(Options{}, nil, &recordingSMS{}, nil)
	code, err := s.generate()
	c.Assert(err, qt.IsNil)
	c.Assert(code, qt.Matches, `\d{6}`)
}
