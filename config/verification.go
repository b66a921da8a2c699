package config

import (
	"sync"
	"time"
)

var (
	verificationOnce   sync.Once
	verificationConfig *VerificationConfig
)

// VerificationConfig points at the third-party identity-document
// verification API.
type VerificationConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

func GetVerificationConfig() *VerificationConfig {
	verificationOnce.Do(func() {
		loadEnv()

		timeout, err := time.ParseDuration(getenv("VERIFICATION_TIMEOUT", "30s"))
		if err != nil {
			timeout = 30 * time.Second
		}

		verificationConfig = &VerificationConfig{
			Endpoint: getenv("VERIFICATION_API_ENDPOINT", ""),
			APIKey:   getenv("VERIFICATION_API_KEY", ""),
			Timeout:  timeout,
		}
	})
	return verificationConfig
}
