package otp

import "time"

// ComputeCounter returns floor(unix(at) / period). A zero period is treated
// as DefaultPeriod. Instants before the Unix epoch map to counter 0.
func ComputeCounter(period uint32, at time.Time) uint64 {
	if period == 0 {
		period = DefaultPeriod
	}
	unix := at.Unix()
	if unix < 0 {
		return 0
	}
	return uint64(unix) / uint64(period)
}

// CurrentCounter is ComputeCounter at time.Now.
func CurrentCounter(period uint32) uint64 {
	return ComputeCounter(period, time.Now())
}

// SecondsRemaining returns how many whole seconds of the current step are left,
// in the range [1, period].
func SecondsRemaining(period uint32, at time.Time) uint32 {
	if period == 0 {
		period = DefaultPeriod
	}
	unix := at.Unix()
	if unix < 0 {
		unix = 0
	}
	return period - uint32(uint64(unix)%uint64(period))
}

// GenerateTOTP returns the code for the time step containing at.
func GenerateTOTP(p Params, at time.Time) (string, error) {
	return Generate(p.Secret, ComputeCounter(p.EffectivePeriod(), at), p.Digits, p.Algorithm)
}

// Window is the previous, current and next TOTP code around one instant.
type Window struct {
	Previous         string
	Current          string
	Next             string
	Counter          uint64
	SecondsRemaining uint32
}

// GenerateWindow derives the code triplet for at, offsetting by one period in
// each direction.
func GenerateWindow(p Params, at time.Time) (Window, error) {
	period := p.EffectivePeriod()
	step := time.Duration(period) * time.Second

	current, err := GenerateTOTP(p, at)
	if err != nil {
		return Window{}, err
	}
	previous, err := GenerateTOTP(p, at.Add(-step))
	if err != nil {
		return Window{}, err
	}
	next, err := GenerateTOTP(p, at.Add(step))
	if err != nil {
		return Window{}, err
	}

	return Window{
		Previous:         previous,
		Current:          current,
		Next:             next,
		Counter:          ComputeCounter(period, at),
		SecondsRemaining: SecondsRemaining(period, at),
	}, nil
}
