// Package config loads the orchestrator's static configuration: the service
// registry entries and the workflow graphs for each input modality.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/parley/pkg/domain"
)

// ServiceSpec declares one registry entry. A spec has either a Decision
// (in-process strategy name) or an Endpoint (remote worker address).
type ServiceSpec struct {
	Name     string `yaml:"name"`
	Tag      string `yaml:"tag"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Decision string `yaml:"decision,omitempty"`
	Modality string `yaml:"modality,omitempty"`
}

// WorkflowSpec declares one named graph. Node IDs are positional, matching
// the successor indices.
type WorkflowSpec struct {
	Name     string           `yaml:"name"`
	Modality string           `yaml:"modality"`
	Default  bool             `yaml:"default,omitempty"`
	Nodes    []map[string]any `yaml:"nodes"`
}

// NodeSpec is the decoded shape of one workflow node entry.
// It uses "mapstructure" tags so nodes can come from YAML or JSON maps.
type NodeSpec struct {
	Service    string `mapstructure:"service"`
	Successors []int  `mapstructure:"successors"`
}

// RedisSpec configures the redis-backed session store.
type RedisSpec struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	TTL      string `yaml:"ttl,omitempty"`
}

// StoreSpec selects and configures the session store backend.
type StoreSpec struct {
	Backend string    `yaml:"backend"` // "memory" (default) or "redis"
	Redis   RedisSpec `yaml:"redis,omitempty"`

	// EncryptionKeyEnv names an environment variable holding base64-encoded
	// AES-256 session keys, comma separated, the active key first and older
	// rotation fallbacks after it. Empty disables encryption at rest.
	EncryptionKeyEnv string `yaml:"encryption_key_env,omitempty"`
}

// Config is the full configuration surface.
type Config struct {
	Listen     string         `yaml:"listen,omitempty"`
	LogLevel   string         `yaml:"log_level,omitempty"`
	HopTimeout string         `yaml:"hop_timeout,omitempty"`
	Store      StoreSpec      `yaml:"session_store,omitempty"`
	Services   []ServiceSpec  `yaml:"services"`
	Workflows  []WorkflowSpec `yaml:"workflows"`
}

// Load reads and parses a YAML configuration file. Endpoints may reference
// environment variables ($LK_HOST:8090) for cluster-provided addressing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for i := range cfg.Services {
		cfg.Services[i].Endpoint = os.ExpandEnv(cfg.Services[i].Endpoint)
	}

	if len(cfg.Services) == 0 {
		return nil, fmt.Errorf("config declares no services")
	}
	if len(cfg.Workflows) == 0 {
		return nil, fmt.Errorf("config declares no workflows")
	}
	return &cfg, nil
}

// HopTimeoutDuration parses the hop timeout, defaulting to 10s.
func (c *Config) HopTimeoutDuration() (time.Duration, error) {
	if c.HopTimeout == "" {
		return 10 * time.Second, nil
	}
	d, err := time.ParseDuration(c.HopTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid hop_timeout: %w", err)
	}
	return d, nil
}

// SessionTTL parses the redis store's idle TTL, defaulting to none.
func (c *Config) SessionTTL() (time.Duration, error) {
	if c.Store.Redis.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Store.Redis.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid session ttl: %w", err)
	}
	return d, nil
}

// SessionKeys resolves the configured encryption key environment variable
// into the active key and any rotation fallbacks. A nil active key means
// encryption is disabled.
func (c *Config) SessionKeys() (active []byte, fallbacks [][]byte, err error) {
	if c.Store.EncryptionKeyEnv == "" {
		return nil, nil, nil
	}
	raw := os.Getenv(c.Store.EncryptionKeyEnv)
	if raw == "" {
		return nil, nil, fmt.Errorf("encryption key env %q is not set", c.Store.EncryptionKeyEnv)
	}

	for i, part := range strings.Split(raw, ",") {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(part))
		if err != nil {
			return nil, nil, fmt.Errorf("session key %d: %w", i, err)
		}
		if len(key) != 32 {
			return nil, nil, fmt.Errorf("session key %d: need 32 bytes, got %d", i, len(key))
		}
		if i == 0 {
			active = key
		} else {
			fallbacks = append(fallbacks, key)
		}
	}
	return active, fallbacks, nil
}

// GraphSet validates the workflow specs into read-only graph templates.
func (c *Config) GraphSet() (*domain.GraphSet, error) {
	graphs := make([]*domain.Graph, 0, len(c.Workflows))
	defaults := make(map[domain.Modality]string)

	for _, wf := range c.Workflows {
		nodes := make([]domain.Node, 0, len(wf.Nodes))
		for i, raw := range wf.Nodes {
			var spec NodeSpec
			if err := mapstructure.Decode(raw, &spec); err != nil {
				return nil, fmt.Errorf("workflow %q node %d: %w", wf.Name, i, err)
			}
			if spec.Service == "" {
				return nil, fmt.Errorf("workflow %q node %d: service is required", wf.Name, i)
			}
			nodes = append(nodes, domain.Node{
				ID:          i,
				ServiceName: spec.Service,
				Successors:  spec.Successors,
			})
		}

		g, err := domain.NewGraph(wf.Name, nodes)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)

		mod := domain.Modality(wf.Modality)
		if mod == "" {
			mod = domain.ModalityText
		}
		// First workflow per modality wins unless another is marked default.
		if _, ok := defaults[mod]; !ok || wf.Default {
			defaults[mod] = wf.Name
		}
	}

	return domain.NewGraphSet(graphs, defaults)
}
