// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type (
	// LoadOptions selects where configuration is read from.
	LoadOptions struct {
		// ConfigFilePath names the config file to read. It must exist.
		ConfigFilePath string
		// ConfigDirPath replaces the user config directory in the lookup.
		ConfigDirPath string
	}

	// Provider loads configuration for a set of LoadOptions.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// ProviderOption customizes the provider returned by NewProvider.
	ProviderOption func(*fileProvider)

	// fileProvider reads CUE config files and remembers the last result per
	// LoadOptions. A cached result is reused while the resolved file keeps its
	// modification time and the UMLGRAPH_* environment is unchanged, so
	// long-running commands can reload cheaply on every change.
	fileProvider struct {
		logger *log.Logger

		mu    sync.Mutex
		cache map[LoadOptions]cachedConfig
	}

	cachedConfig struct {
		path    string
		modTime time.Time
		env     string
		cfg     *Config
	}
)

// WithLogger sends a debug line per load to logger.
func WithLogger(logger *log.Logger) ProviderOption {
	return func(p *fileProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProvider creates a provider that reads config.cue files.
func NewProvider(opts ...ProviderOption) Provider {
	p := &fileProvider{
		logger: log.New(io.Discard),
		cache:  make(map[LoadOptions]cachedConfig),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load returns the configuration for opts. Each call returns a fresh copy.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	env := envSnapshot()
	path, err := Locate(opts)
	if err != nil {
		return nil, err
	}
	modTime := fileModTime(path)

	p.mu.Lock()
	cached, ok := p.cache[opts]
	p.mu.Unlock()
	if ok && cached.path == path && cached.env == env && cached.modTime.Equal(modTime) && ctx.Err() == nil {
		p.logger.Debug("configuration unchanged", "path", displayPath(path))
		return cached.cfg.clone(), nil
	}

	cfg, resolved, err := loadWithOptions(ctx, opts)
	if err != nil {
		p.mu.Lock()
		delete(p.cache, opts)
		p.mu.Unlock()
		return nil, err
	}
	p.logger.Debug("configuration loaded", "path", displayPath(resolved))

	p.mu.Lock()
	p.cache[opts] = cachedConfig{path: resolved, modTime: fileModTime(resolved), env: env, cfg: cfg}
	p.mu.Unlock()
	return cfg.clone(), nil
}

func (c *Config) clone() *Config {
	out := *c
	out.Transform.DependencyKinds = slices.Clone(c.Transform.DependencyKinds)
	return &out
}

// envSnapshot joins the sorted UMLGRAPH_* variables.
func envSnapshot() string {
	prefix := EnvPrefix + "_"
	var vars []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			vars = append(vars, kv)
		}
	}
	slices.Sort(vars)
	return strings.Join(vars, "\n")
}

func fileModTime(path string) time.Time {
	if path == "" {
		return time.Time{}
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func displayPath(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}
