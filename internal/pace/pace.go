// Package pace computes the pause between trials that keeps a sweep under a
// provider's request and token rate limits.
package pace

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// Limits are per-minute provider quotas. A zero value disables that dimension.
type Limits struct {
	RPM int `yaml:"rpm" mapstructure:"rpm"`
	TPM int `yaml:"tpm" mapstructure:"tpm"`
}

// Breakdown holds the parts of a Delay computation, for logging.
type Breakdown struct {
	RPMPause time.Duration
	TPMPause time.Duration
	// Raw is the unadjusted time the consumed tokens cost under TPM.
	Raw time.Duration
}

// Delay returns how long to wait after a call that consumed tokens and took
// elapsed.
//
// In time-based mode each quota's required spacing (60/RPM and
// 60*tokens/TPM seconds) is reduced by elapsed and rounded up to whole
// seconds, and the larger pause wins. Otherwise the pause is the full TPM
// spacing, unrounded.
func Delay(lim Limits, tokens int, elapsed time.Duration, timeBased bool) time.Duration {
	d, _ := Explain(lim, tokens, elapsed, timeBased)
	return d
}

// Explain is Delay with the intermediate values.
func Explain(lim Limits, tokens int, elapsed time.Duration, timeBased bool) (time.Duration, Breakdown) {
	var rpmNeed, tpmNeed float64
	if lim.RPM > 0 {
		rpmNeed = 60 / float64(lim.RPM)
	}
	if lim.TPM > 0 {
		tpmNeed = 60 * (float64(tokens) / float64(lim.TPM))
	}
	b := Breakdown{Raw: seconds(tpmNeed)}

	if !timeBased {
		return b.Raw, b
	}

	used := elapsed.Seconds()
	if used < rpmNeed {
		b.RPMPause = seconds(math.Ceil(rpmNeed - used))
	}
	if used < tpmNeed {
		b.TPMPause = seconds(math.Ceil(tpmNeed - used))
	}
	return max(b.RPMPause, b.TPMPause), b
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

// Sleep blocks for d. It returns early with the context error if ctx ends.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pacer pauses between trials.
type Pacer interface {
	Wait(ctx context.Context, tokens int, elapsed time.Duration) (time.Duration, error)
}

// Limiter is the default Pacer: it computes Delay and sleeps for it.
type Limiter struct {
	Limits    Limits
	TimeBased bool
	Verbose   bool

	sleep func(context.Context, time.Duration) error
}

// NewLimiter returns a Limiter that sleeps with Sleep.
func NewLimiter(lim Limits, timeBased, verbose bool) *Limiter {
	return &Limiter{Limits: lim, TimeBased: timeBased, Verbose: verbose, sleep: Sleep}
}

// Wait computes the pause for the finished call and blocks for it.
func (l *Limiter) Wait(ctx context.Context, tokens int, elapsed time.Duration) (time.Duration, error) {
	d, b := Explain(l.Limits, tokens, elapsed, l.TimeBased)
	if l.Verbose {
		zap.L().Info("pausing to respect rate limits",
			zap.Duration("rpm_pause", b.RPMPause),
			zap.Duration("tpm_pause", b.TPMPause),
			zap.Duration("raw_pause", b.Raw),
			zap.Duration("pause", d),
		)
	}
	sleep := l.sleep
	if sleep == nil {
		sleep = Sleep
	}
	if err := sleep(ctx, d); err != nil {
		return d, err
	}
	if l.Verbose {
		zap.L().Info("resuming")
	}
	return d, nil
}
