package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	pipelineOnce   sync.Once
	pipelineConfig *PipelineConfig
)

// PipelineConfig tunes batch execution. It is read from pipeline.yaml
// at the project root when present; every field has a usable default.
type PipelineConfig struct {
	// MaxConcurrent bounds how many units of one batch run at once.
	MaxConcurrent int `yaml:"max_concurrent"`
	// UnpairedPassportPolicy is "drop" or "report".
	UnpairedPassportPolicy string `yaml:"unpaired_passport_policy"`
	// OCREngine is "textract" or "tesseract".
	OCREngine string `yaml:"ocr_engine"`
	// ProcessTimeout caps how long one batch task may run in the worker.
	ProcessTimeout time.Duration `yaml:"process_timeout"`
	// MaxRetries is how often a crashed batch task is redelivered.
	MaxRetries int `yaml:"max_retries"`
}

func GetPipelineConfig() *PipelineConfig {
	pipelineOnce.Do(func() {
		pipelineConfig = &PipelineConfig{
			MaxConcurrent:          4,
			UnpairedPassportPolicy: "drop",
			OCREngine:              "textract",
			ProcessTimeout:         30 * time.Minute,
			MaxRetries:             1,
		}

		_, filename, _, _ := runtime.Caller(0)
		rootDir := filepath.Dir(filepath.Dir(filename))
		path := filepath.Join(rootDir, "pipeline.yaml")

		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Warning: can't read %s: %v", path, err)
			}
			return
		}
		if err := yaml.Unmarshal(data, pipelineConfig); err != nil {
			log.Printf("Warning: can't parse %s: %v", path, err)
		}
	})
	return pipelineConfig
}
