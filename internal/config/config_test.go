package config

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/spf13/viper"
)

func TestFromViperDefaults(t *testing.T) {
	c := qt.New(t)

	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	c.Assert(cfg.Port, qt.Equals, "5000")
	c.Assert(cfg.OTPTTL, qt.Equals, 5*time.Minute)
	c.Assert(cfg.JWTTTL, qt.Equals, 72*time.Hour)
	c.Assert(cfg.StaticOTP, qt.IsFalse)
	c.Assert(cfg.CORSOrigins, qt.DeepEquals, []string{"http://localhost:5173"})
	c.Assert(cfg.SMTPEnabled(), qt.IsFalse)
	c.Assert(cfg.PayPalEnabled(), qt.IsFalse)
}

func TestFromViperOverrides(t *testing.T) {
	c := qt.New(t)

	v := viper.New()
	setDefaults(v)
	v.Set("STATIC_OTP", "true")
	v.Set("BASE_URL", "https://api.glow.test/")
	v.Set("CORS_ORIGINS", "https://glow.test, https://admin.glow.test ,")
	v.Set("SMTP_USER", "shop@glow.test")
	v.Set("PAYPAL_CLIENT_ID", "id")
	v.Set("PAYPAL_CLIENT_SECRET", "secret")
	cfg := fromViper(v)

	c.Assert(cfg.StaticOTP, qt.IsTrue)
	c.Assert(cfg.BaseURL, qt.Equals, "https://api.glow.test")
	c.Assert(cfg.CORSOrigins, qt.DeepEquals, []string{"https://glow.test", "https://admin.glow.test"})
	c.Assert(cfg.SMTPEnabled(), qt.IsTrue)
	c.Assert(cfg.PayPalEnabled(), qt.IsTrue)
}
