// Package packageinfo loads package metadata files and folds tier-specific
// overrides on top of the base values.
//
// A package file holds base values, an optional "tier" key naming the active
// tier, and an optional "tiers" table of per-tier overrides:
//
//	name: billing
//	tier: prod
//	db:
//	  host: localhost
//	  pool: 4
//	tiers:
//	  prod:
//	    db:
//	      host: db.internal
//
// Loading it yields db.host = "db.internal" and db.pool = 4.
package packageinfo

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/optmap"
)

const (
	// DefaultTier is used when neither the caller nor the file names a tier
	DefaultTier = "dev"
	// DefaultFileName is looked up under the package home directory
	DefaultFileName = "package.yaml"

	tierKey  = "tier"
	tiersKey = "tiers"
)

// EnvTransformFunc converts a key to an environment variable name
type EnvTransformFunc func(key string) string

type options struct {
	name         string
	description  string
	version      string
	debug        bool
	path         string
	tier         string
	envPrefix    string
	envTransform EnvTransformFunc
	format       optmap.Format
	logger       *slog.Logger
}

// Option configures an Info
type Option func(*options)

// WithName seeds the package name, overridden by the file
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithDescription seeds the package description, overridden by the file
func WithDescription(description string) Option {
	return func(o *options) { o.description = description }
}

// WithVersion seeds the package version, overridden by the file
func WithVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// WithDebug seeds the debug flag, true by default
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// WithPath sets the package file path instead of <home>/package.yaml
func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

// WithTier forces the active tier regardless of the environment and the file
func WithTier(tier string) Option {
	return func(o *options) { o.tier = tier }
}

// WithEnvPrefix enables reading the active tier from <prefix>TIER
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// WithEnvTransform customizes the environment variable name for the tier key
func WithEnvTransform(fn EnvTransformFunc) Option {
	return func(o *options) { o.envTransform = fn }
}

// WithFormat sets the file format instead of detecting it
func WithFormat(format optmap.Format) Option {
	return func(o *options) { o.format = format }
}

// WithLogger sets the logger for load events
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Info is the metadata of one package
type Info struct {
	data *optmap.Map
	home string
	path string
	tier string
	opts options
}

// New creates package metadata rooted at home and loads the package file when it exists
func New(home string, opts ...Option) (*Info, error) {
	o := options{
		debug:  true,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	path := o.path
	if path == "" {
		path = filepath.Join(home, DefaultFileName)
	}

	data := optmap.New().
		Set("package_home", home).
		Set("name", o.name).
		Set("description", o.description).
		Set("version", o.version).
		Set("debug", o.debug).
		Set("package_info_path", path)

	info := &Info{
		data: data,
		home: home,
		path: path,
		tier: DefaultTier,
		opts: o,
	}

	if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
		if err := info.Load(path); err != nil {
			return nil, err
		}
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to check package file '%s': %w", path, err)
	}

	return info, nil
}

// Load merges a package file into the metadata: base values first, then the
// overrides of the active tier. An empty path reloads the configured file.
func (p *Info) Load(path string) error {
	if path == "" {
		path = p.path
	}

	file, err := optmap.LoadFile(path, p.opts.format)
	if err != nil {
		return fmt.Errorf("failed to load package info: %w", err)
	}

	tier := p.resolveTier(file)
	tiers, _ := file.Lookup(tiersKey)
	file.Delete(tiersKey)

	p.data.Merge(file, optmap.DeepMergeOptions())

	applied := false
	if tierTable, ok := tiers.(*optmap.Map); ok {
		if overrides, ok := tierTable.Lookup(tier); ok && optmap.KindOf(overrides) == optmap.KindMapping {
			p.data.Merge(overrides, optmap.DeepMergeOptions())
			applied = true
		}
	}

	p.path = path
	p.tier = tier
	p.data.Set("package_info_path", path)

	p.opts.logger.Debug("package info loaded",
		"path", path,
		"tier", tier,
		"tier_overrides", applied,
	)
	return nil
}

// resolveTier picks the active tier: explicit option, then environment, then
// the file's tier key, then DefaultTier
func (p *Info) resolveTier(file *optmap.Map) string {
	if p.opts.tier != "" {
		return p.opts.tier
	}

	if p.opts.envPrefix != "" || p.opts.envTransform != nil {
		transform := p.opts.envTransform
		if transform == nil {
			transform = defaultEnvTransform(p.opts.envPrefix)
		}
		if value, exists := os.LookupEnv(transform(tierKey)); exists && value != "" {
			return value
		}
	}

	if v, ok := file.Lookup(tierKey); ok && v != nil {
		if tier := fmt.Sprint(v); tier != "" {
			return tier
		}
	}
	return DefaultTier
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(key string) string {
		env := strings.ReplaceAll(key, ".", "_")
		return prefix + strings.ToUpper(env)
	}
}

// Map returns the live metadata map
func (p *Info) Map() *optmap.Map {
	return p.data
}

// Home returns the package home directory
func (p *Info) Home() string {
	return p.home
}

// Path returns the package file path
func (p *Info) Path() string {
	return p.path
}

// Tier returns the active tier of the last load, DefaultTier before any load
func (p *Info) Tier() string {
	return p.tier
}

// Get returns the value at a dot-separated path, or nil
func (p *Info) Get(path string) any {
	return p.data.GetPath(path)
}

// Name returns the package name as a string
func (p *Info) Name() string {
	return p.stringValue("name")
}

// Version returns the package version as a string
func (p *Info) Version() string {
	return p.stringValue("version")
}

func (p *Info) stringValue(key string) string {
	v, ok := p.data.Lookup(key)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Scan decodes the metadata into target using "yaml" struct tags
func (p *Info) Scan(target any) error {
	return p.data.Decode(target, "yaml")
}
