package osvdev

import "github.com/sbomscope/sbomscope/internal/version"

type ClientConfig struct {
	MaxRetryAttempts          int
	JitterMultiplier          float64
	BackoffDurationMultiplier float64
	UserAgent                 string
}

// DefaultConfig make a default client config
func DefaultConfig() ClientConfig {
	return ClientConfig{
		MaxRetryAttempts:          4,
		JitterMultiplier:          2,
		BackoffDurationMultiplier: 1.5,
		UserAgent:                 "sbomscope/" + version.SbomscopeVersion,
	}
}
