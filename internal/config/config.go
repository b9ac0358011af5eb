// Package config loads pipeline configuration from JSON. The schema uses
// pointer fields so partial configs are safe: fields omitted from the file
// fall back to defaults through the Get* accessors.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PipelineConfig represents the root configuration for a comparison pipeline
// run. The same JSON shape drives the generate, variation, and compare tools.
type PipelineConfig struct {
	// Corpus params
	ResponseCount *int `json:"response_count,omitempty"`

	// Extraction params
	ThemeCount *int `json:"theme_count,omitempty"`

	// Variation params
	VariationLevel *float64 `json:"variation_level,omitempty"`
	Seed           *int64   `json:"seed,omitempty"`

	// Engine params
	Workers *int `json:"workers,omitempty"`

	// Generation params
	GenerationModel     *string `json:"generation_model,omitempty"`
	GenerationBatchSize *int    `json:"generation_batch_size,omitempty"`
}

// EmptyPipelineConfig returns a PipelineConfig with all fields unset.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file. The file must
// have a .json extension and stay under the max file size.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *PipelineConfig) Validate() error {
	if c.VariationLevel != nil {
		if *c.VariationLevel < 0 || *c.VariationLevel > 1 {
			return fmt.Errorf("variation_level must be between 0 and 1, got %f", *c.VariationLevel)
		}
	}
	if c.ResponseCount != nil && *c.ResponseCount < 1 {
		return fmt.Errorf("response_count must be positive, got %d", *c.ResponseCount)
	}
	if c.ThemeCount != nil {
		if *c.ThemeCount < 1 || *c.ThemeCount > 26 {
			return fmt.Errorf("theme_count must be between 1 and 26, got %d", *c.ThemeCount)
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.GenerationBatchSize != nil && *c.GenerationBatchSize < 1 {
		return fmt.Errorf("generation_batch_size must be positive, got %d", *c.GenerationBatchSize)
	}
	return nil
}

// GetResponseCount returns the response_count value or the default.
func (c *PipelineConfig) GetResponseCount() int {
	if c.ResponseCount == nil {
		return 300 // default
	}
	return *c.ResponseCount
}

// GetThemeCount returns the theme_count value or the default.
func (c *PipelineConfig) GetThemeCount() int {
	if c.ThemeCount == nil {
		return 10 // default
	}
	return *c.ThemeCount
}

// GetVariationLevel returns the variation_level value or the default.
func (c *PipelineConfig) GetVariationLevel() float64 {
	if c.VariationLevel == nil {
		return 0.3 // default
	}
	return *c.VariationLevel
}

// GetSeed returns the seed value or the default.
func (c *PipelineConfig) GetSeed() int64 {
	if c.Seed == nil {
		return 42 // default
	}
	return *c.Seed
}

// GetWorkers returns the workers value or the default (sequential).
func (c *PipelineConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetGenerationModel returns the generation_model value or the default.
func (c *PipelineConfig) GetGenerationModel() string {
	if c.GenerationModel == nil {
		return "gemini-2.0-flash"
	}
	return *c.GenerationModel
}

// GetGenerationBatchSize returns the generation_batch_size value or the default.
func (c *PipelineConfig) GetGenerationBatchSize() int {
	if c.GenerationBatchSize == nil {
		return 25
	}
	return *c.GenerationBatchSize
}
