package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gerberprototyping/malcolm-sim/pkg/taskgen"
)

// defaultPerf is applied to CorePerf/IOPerf when a node config omits them
// (or sets them to 0): both are scaling factors against a core/IO unit's
// base rate, and 1 is the neutral "no scaling" value.
const defaultPerf = 1.0

// NodeConfig describes one Malcolm Node's hardware profile.
type NodeConfig struct {
	Name      string  `json:"name" yaml:"name" validate:"required"`
	CoreCount IECInt  `json:"core_count" yaml:"core_count" validate:"required"`
	CorePerf  float64 `json:"core_perf" yaml:"core_perf" validate:"gt=0"`
	IOCount   IECInt  `json:"io_count" yaml:"io_count" validate:"required"`
	IOPerf    float64 `json:"io_perf" yaml:"io_perf" validate:"gt=0"`
	Overhead  float64 `json:"overhead" yaml:"overhead" validate:"gte=0"`
	Bandwidth IECInt  `json:"bandwidth" yaml:"bandwidth" validate:"required"`
}

// applyDefaults fills in omitted-or-zero optional fields before validation
// runs, so a config that leaves core_perf/io_perf out gets the documented
// default of 1 instead of failing gt=0 validation.
func (n *NodeConfig) applyDefaults() {
	if n.CorePerf == 0 {
		n.CorePerf = defaultPerf
	}
	if n.IOPerf == 0 {
		n.IOPerf = defaultPerf
	}
}

// SamplerConfig describes one of the four task samplers. Type selects
// which fields apply: "const"/"constant" uses Value; "gaussian" uses
// Center and Scale.
type SamplerConfig struct {
	Type   string  `json:"type" yaml:"type" validate:"required,oneof=const constant gaussian"`
	Value  float64 `json:"value" yaml:"value"`
	Center float64 `json:"center" yaml:"center"`
	Scale  float64 `json:"scale" yaml:"scale" validate:"gte=0"`
}

// Build returns the Sampler this config describes.
func (c SamplerConfig) Build() (taskgen.Sampler, error) {
	switch strings.ToLower(c.Type) {
	case "const", "constant":
		return taskgen.ConstantSampler{Value: c.Value}, nil
	case "gaussian":
		return taskgen.NewGaussianSampler(c.Center, c.Scale, deriveSeed(c)), nil
	default:
		return nil, fmt.Errorf("config: unknown sampler type %q", c.Type)
	}
}

// deriveSeed derives a deterministic seed from a gaussian sampler's own
// parameters so that reloading the same config reproduces the same
// sequence, without requiring a separate seed field in the file.
func deriveSeed(c SamplerConfig) uint64 {
	bits := uint64(c.Center*1000) ^ uint64(c.Scale*1_000_003)
	return bits | 1
}

// TasksConfig names the four samplers a cluster's Task Generator draws
// from.
type TasksConfig struct {
	Rate    SamplerConfig `json:"rate" yaml:"rate" validate:"required"`
	Runtime SamplerConfig `json:"runtime" yaml:"runtime" validate:"required"`
	IOTime  SamplerConfig `json:"io_time" yaml:"io_time" validate:"required"`
	Payload SamplerConfig `json:"payload" yaml:"payload" validate:"required"`
}

// Build returns the taskgen.Config this TasksConfig describes.
func (c TasksConfig) Build() (taskgen.Config, error) {
	rate, err := c.Rate.Build()
	if err != nil {
		return taskgen.Config{}, fmt.Errorf("rate sampler: %w", err)
	}
	runtime, err := c.Runtime.Build()
	if err != nil {
		return taskgen.Config{}, fmt.Errorf("runtime sampler: %w", err)
	}
	ioTime, err := c.IOTime.Build()
	if err != nil {
		return taskgen.Config{}, fmt.Errorf("io_time sampler: %w", err)
	}
	payload, err := c.Payload.Build()
	if err != nil {
		return taskgen.Config{}, fmt.Errorf("payload sampler: %w", err)
	}
	return taskgen.Config{Rate: rate, Runtime: runtime, IOTime: ioTime, Payload: payload}, nil
}

// ClusterConfig is the top-level cluster definition file.
type ClusterConfig struct {
	Nodes []NodeConfig `json:"nodes" yaml:"nodes" validate:"required,min=1,dive"`
	Tasks TasksConfig  `json:"tasks" yaml:"tasks" validate:"required"`
}

var validate = validator.New()

// Validate runs struct-tag validation over cfg.
func Validate(cfg *ClusterConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	names := make(map[string]bool, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		if names[n.Name] {
			return fmt.Errorf("config: duplicate node name %q", n.Name)
		}
		names[n.Name] = true
	}
	return nil
}

// Load reads and validates a ClusterConfig from path. The format is
// chosen by file extension: .json, or .yaml/.yml.
func Load(path string) (*ClusterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %q: %w", path, err)
	}

	var cfg ClusterConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %q as JSON: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %q as YAML: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported config file extension %q (want .json, .yaml, or .yml)", ext)
	}

	for i := range cfg.Nodes {
		cfg.Nodes[i].applyDefaults()
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
