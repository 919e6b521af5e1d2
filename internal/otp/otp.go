// Package otp issues and checks the one-time codes used for email and phone
// verification. Codes live in memory for a short TTL; sends are throttled
// per key and repeated wrong guesses discard the code.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/time/rate"
)

// StaticCode is issued for every request when static codes are enabled.
const StaticCode = "123456"

var (
	ErrNotFound        = errors.New("OTP not found or expired")
	ErrExpired         = errors.New("OTP has expired")
	ErrInvalid         = errors.New("Invalid OTP")
	ErrTooManyAttempts = errors.New("Too many invalid attempts, please request a new OTP")
	ErrRateLimited     = errors.New("Too many OTP requests, please wait before trying again")
	ErrInvalidPhone    = errors.New("Phone number must contain at least 10 digits")
	ErrInvalidEmail    = errors.New("A valid email address is required")
)

// EmailSender delivers a code by email.
type EmailSender interface {
	SendOTP(ctx context.Context, to, code string) error
}

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// Options tune a Service. Zero values take the defaults.
type Options struct {
	TTL          time.Duration // default 5m
	Static       bool
	MaxAttempts  int           // default 5
	SendInterval time.Duration // default 30s
	SendBurst    int           // default 3
}

// Result describes an issued code.
type Result struct {
	Key       string
	ExpiresAt time.Time
	Delivered bool
}

type entry struct {
	code      string
	expiresAt time.Time
	verified  bool
	attempts  int
}

// Service holds the outstanding codes. It is safe for concurrent use.
type Service struct {
	opts   Options
	email  EmailSender
	sms    SMSSender
	logger *slog.Logger

	mu       sync.Mutex
	entries  map[string]*entry
	limiters map[string]*rate.Limiter

	now func() time.Time
}

// New returns a Service. Nil senders fall back to logging the code.
func New(opts Options, email EmailSender, sms SMSSender, logger *slog.Logger) *Service {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.SendInterval <= 0 {
		opts.SendInterval = 30 * time.Second
	}
	if opts.SendBurst <= 0 {
		opts.SendBurst = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		opts:     opts,
		email:    email,
		sms:      sms,
		logger:   logger,
		entries:  make(map[string]*entry),
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
	if s.sms == nil {
		s.sms = LogSMS{Logger: logger}
	}
	return s
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	at := strings.Index(e, "@")
	if at < 1 || at == len(e)-1 {
		return "", ErrInvalidEmail
	}
	return e, nil
}

// NormalizePhone keeps the digits of phone and returns the last ten.
func NormalizePhone(phone string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) < 10 {
		return "", ErrInvalidPhone
	}
	return digits[len(digits)-10:], nil
}

func (s *Service) generate() (string, error) {
	if s.opts.Static {
		return StaticCode, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// issue stores a fresh code for key, replacing any previous one.
func (s *Service) issue(key string) (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	lim, ok := s.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(s.opts.SendInterval), s.opts.SendBurst)
		s.limiters[key] = lim
	}
	if !lim.AllowN(now, 1) {
		return "", time.Time{}, ErrRateLimited
	}

	code, err := s.generate()
	if err != nil {
		return "", time.Time{}, err
	}
	expires := now.Add(s.opts.TTL)
	s.entries[key] = &entry{code: code, expiresAt: expires}
	return code, expires, nil
}

// SendOTP issues a code for an email address and mails it. A delivery
// failure is logged and reported through Result.Delivered only.
func (s *Service) SendOTP(ctx context.Context, email string) (*Result, error) {
	key, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	code, expires, err := s.issue(key)
	if err != nil {
		return nil, err
	}

	res := &Result{Key: key, ExpiresAt: expires}
	if s.email == nil {
		s.logger.Info("email OTP issued (no mailer configured)", "email", key, "otp", code)
		return res, nil
	}
	if err := s.email.SendOTP(ctx, key, code); err != nil {
		s.logger.Error("failed to deliver email OTP", "email", key, "error", err)
		return res, nil
	}
	res.Delivered = true
	return res, nil
}

// SendMobileOTP issues a code for a phone number and texts it.
func (s *Service) SendMobileOTP(ctx context.Context, phone string) (*Result, error) {
	key, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	code, expires, err := s.issue(key)
	if err != nil {
		return nil, err
	}

	res := &Result{Key: key, ExpiresAt: expires}
	msg := fmt.Sprintf("Your Glow Beauty verification code is %s. It expires in %d minutes.", code, int(s.opts.TTL.Minutes()))
	if err := s.sms.SendSMS(ctx, key, msg); err != nil {
		s.logger.Error("failed to deliver SMS OTP", "phone", key, "error", err)
		return res, nil
	}
	res.Delivered = true
	return res, nil
}

// VerifyOTP checks the code issued for an email address.
func (s *Service) VerifyOTP(email, code string) error {
	key, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	return s.verify(key, code)
}

// VerifyMobileOTP checks the code issued for a phone number.
func (s *Service) VerifyMobileOTP(phone, code string) error {
	key, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	return s.verify(key, code)
}

// verify marks the entry verified on a match. A verified entry stays valid
// until it expires or a new code replaces it.
func (s *Service) verify(key, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return ErrExpired
	}
	if strings.TrimSpace(code) != e.code {
		e.attempts++
		if e.attempts >= s.opts.MaxAttempts {
			delete(s.entries, key)
			return ErrTooManyAttempts
		}
		return ErrInvalid
	}
	e.verified = true
	return nil
}

// IsVerified reports whether the email or phone key holds an unexpired,
// verified code.
func (s *Service) IsVerified(key string) bool {
	if k, err := NormalizePhone(key); err == nil && !strings.Contains(key, "@") {
		key = k
	} else if k, err := NormalizeEmail(key); err == nil {
		key = k
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return ok && e.verified && !s.now().After(e.expiresAt)
}

// Sweep drops codes that expired more than one TTL ago, along with idle
// limiters. Recently expired codes are kept so verify still reports
// ErrExpired rather than ErrNotFound. It returns the number of codes removed.
func (s *Service) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if now.After(e.expiresAt.Add(s.opts.TTL)) {
			delete(s.entries, k)
			removed++
		}
	}
	for k, lim := range s.limiters {
		if _, live := s.entries[k]; !live && lim.TokensAt(now) >= float64(s.opts.SendBurst) {
			delete(s.limiters, k)
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("swept expired OTPs", "count", n)
			}
		}
	}
}

// LogSMS writes text messages to the log instead of a carrier.
type LogSMS struct {
	Logger *slog.Logger
}

func (l LogSMS) SendSMS(_ context.Context, phone, message string) error {
	l.Logger.Info("SMS (simulated)", "phone", phone, "message", message)
	return nil
}
