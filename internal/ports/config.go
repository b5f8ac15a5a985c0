package ports

import "time"

// Default ranking parameters. A 5-launch count gap outweighs any fuzzy
// delta between one-character matches under these weights.
const (
	DefaultWFuzzy          = 1.0
	DefaultWUsage          = 10.0
	DefaultRecencyHalfLife = 7 * 24 * time.Hour
	DefaultTopK            = 8
)

// Config carries the tunable ranking constants. Injected at construction,
// never hard-coded, so ranking behavior is independently testable under
// varied weightings.
type Config struct {
	// WFuzzy weights the intrinsic fuzzy match score in the blend.
	WFuzzy float64

	// WUsage weights the learned usage score in the blend.
	WUsage float64

	// RecencyHalfLife is the elapsed time after which an entry's recency
	// boost halves. Shorter half-life adapts faster, forgets faster.
	RecencyHalfLife time.Duration

	// TopK is how many ranked entries the session hands to the UI.
	// The engine always produces the full ordering; truncation is the
	// session's concern.
	TopK int
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() Config {
	return Config{
		WFuzzy:          DefaultWFuzzy,
		WUsage:          DefaultWUsage,
		RecencyHalfLife: DefaultRecencyHalfLife,
		TopK:            DefaultTopK,
	}
}

// Normalize fills zero or invalid fields with defaults and returns the result.
func (c Config) Normalize() Config {
	if c.WFuzzy <= 0 {
		c.WFuzzy = DefaultWFuzzy
	}
	if c.WUsage < 0 {
		c.WUsage = DefaultWUsage
	}
	if c.RecencyHalfLife <= 0 {
		c.RecencyHalfLife = DefaultRecencyHalfLife
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	return c
}
