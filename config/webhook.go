package config

import (
	"sync"
	"time"
)

var (
	webhookOnce   sync.Once
	webhookConfig *WebhookConfig
)

// WebhookConfig points at the system of record receiving unit results.
type WebhookConfig struct {
	BaseURL string
	Timeout time.Duration
}

func GetWebhookConfig() *WebhookConfig {
	webhookOnce.Do(func() {
		loadEnv()

		timeout, err := time.ParseDuration(getenv("RESULT_WEBHOOK_TIMEOUT", "15s"))
		if err != nil {
			timeout = 15 * time.Second
		}

		webhookConfig = &WebhookConfig{
			BaseURL: getenv("RESULT_WEBHOOK_BASE_URL", "http://localhost:9090"),
			Timeout: timeout,
		}
	})
	return webhookConfig
}
