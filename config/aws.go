package config

import (
	"sync"
)

var (
	awsOnce   sync.Once
	awsConfig *AWSConfig
)

type AWSConfig struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func GetAWSConfig() *AWSConfig {
	awsOnce.Do(func() {
		loadEnv()

		awsConfig = &AWSConfig{
			Region:    getenv("AWS_REGION", "us-east-1"),
			Endpoint:  getenv("AWS_ENDPOINT", ""),
			AccessKey: getenv("AWS_ACCESS_KEY", ""),
			SecretKey: getenv("AWS_SECRET_KEY", ""),
		}
	})
	return awsConfig
}
