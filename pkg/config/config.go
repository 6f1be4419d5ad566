// Package config loads forcegraph settings from layered sources.
//
// Sources are applied in increasing priority: built-in defaults, a TOML file,
// FORCEGRAPH_* environment variables, and finally command-line flags that
// were set explicitly. Keys are the flag names, so
//
//	time-step = 0.02           # forcegraph.toml
//	FORCEGRAPH_TIME_STEP=0.02  # environment
//	--time-step 0.02           # flag
//
// all set the same value.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	ferrors "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout/force"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "forcegraph.toml"

// Default per-session graph size limits of the server.
const (
	DefaultMaxNodes = 10000
	DefaultMaxEdges = 100000
)

// EnvPrefix marks environment variables that override settings.
const EnvPrefix = "FORCEGRAPH_"

// Config holds all settings.
type Config struct {
	// Simulation
	Stiffness float64 `koanf:"stiffness"`
	Repulsion float64 `koanf:"repulsion"`
	Damping   float64 `koanf:"damping"`
	Threshold float64 `koanf:"threshold"`
	TimeStep  float64 `koanf:"time-step"`
	MaxSteps  int     `koanf:"max-steps"`
	Planar    bool    `koanf:"planar"`
	Law       string  `koanf:"law"`
	Lenient   bool    `koanf:"lenient"`
	ViewScale float64 `koanf:"view-scale"`

	// Random graphs
	Nodes int    `koanf:"nodes"`
	Edges int    `koanf:"edges"`
	Seed  int64  `koanf:"seed"`
	IDs   string `koanf:"ids"` // "sequence" or "uuid"

	// Server
	Addr       string        `koanf:"addr"`
	SessionTTL time.Duration `koanf:"session-ttl"`
	MaxNodes   int           `koanf:"max-nodes"` // per session
	MaxEdges   int           `koanf:"max-edges"` // per session, edge draws for random graphs
}

// Id styles for generated node and edge ids.
const (
	IDsSequence = "sequence"
	IDsUUID     = "uuid"
)

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	p := force.DefaultParams()
	return map[string]any{
		"stiffness":   p.Stiffness,
		"repulsion":   p.Repulsion,
		"damping":     p.Damping,
		"threshold":   p.Threshold,
		"time-step":   0.016,
		"max-steps":   20000,
		"planar":      false,
		"law":         force.LawLinear.String(),
		"lenient":     false,
		"view-scale":  0.01,
		"nodes":       100,
		"edges":       500,
		"seed":        0,
		"ids":         IDsSequence,
		"addr":        ":8080",
		"session-ttl": "30m",
		"max-nodes":   DefaultMaxNodes,
		"max-edges":   DefaultMaxEdges,
	}
}

// Load builds the configuration. An empty path reads [DefaultFile] if it
// exists; a named file must exist. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	if err := loadFile(k, path); err != nil {
		return nil, err
	}

	// 3. Environment variables, FORCEGRAPH_TIME_STEP -> time-step
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "decode settings")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}
	return nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if _, err := force.ParseLaw(c.Law); err != nil {
		return err
	}
	if err := ferrors.ValidateRange("time-step", c.TimeStep, 0, math.MaxFloat64, true); err != nil {
		return err
	}
	if err := ferrors.ValidateRange("view-scale", c.ViewScale, 0, math.MaxFloat64, true); err != nil {
		return err
	}
	if c.MaxSteps < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "max-steps must not be negative, got %d", c.MaxSteps)
	}
	if c.Nodes < 0 || c.Edges < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "nodes and edges must not be negative")
	}
	if c.IDs != IDsSequence && c.IDs != IDsUUID {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "ids must be %q or %q, got %q", IDsSequence, IDsUUID, c.IDs)
	}
	if c.MaxNodes <= 0 || c.MaxEdges <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "max-nodes and max-edges must be positive (max-nodes %d, max-edges %d)", c.MaxNodes, c.MaxEdges)
	}
	if c.SessionTTL <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "session-ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Params returns the simulation parameters.
func (c *Config) Params() force.Params {
	return force.Params{
		Stiffness: c.Stiffness,
		Repulsion: c.Repulsion,
		Damping:   c.Damping,
		Threshold: c.Threshold,
	}
}

// SimulatorOptions returns the simulator options the settings select.
func (c *Config) SimulatorOptions() []force.Option {
	law, _ := force.ParseLaw(c.Law)
	opts := []force.Option{force.WithLaw(law)}
	if c.Lenient {
		opts = append(opts, force.WithLenientLookup())
	}
	return opts
}

// IDGenerator returns a generator in the configured id style. Sequences use
// prefix.
func (c *Config) IDGenerator(prefix string) graph.IDGenerator {
	if c.IDs == IDsUUID {
		return graph.UUIDGenerator{}
	}
	return graph.NewSequence(prefix)
}

// RandomIDs returns the id generator for random graphs, nil for the
// generator's own "n" and "e" sequences.
func (c *Config) RandomIDs() graph.IDGenerator {
	if c.IDs == IDsUUID {
		return graph.UUIDGenerator{}
	}
	return nil
}

// CheckSize rejects graphs with more nodes or edges than the server allows.
func (c *Config) CheckSize(nodes, edges int) error {
	if nodes > c.MaxNodes {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "graph has %d nodes, limit is %d", nodes, c.MaxNodes)
	}
	if edges > c.MaxEdges {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "graph has %d edges, limit is %d", edges, c.MaxEdges)
	}
	return nil
}

// NewSimulator creates a simulator for g from the settings, planar or not.
func (c *Config) NewSimulator(g *graph.Graph) (*force.Simulator, error) {
	if c.Planar {
		return force.NewPlanar(g, c.Params(), c.SimulatorOptions()...)
	}
	return force.New(g, c.Params(), c.SimulatorOptions()...)
}

// BindSimulationFlags registers the simulation flags.
func BindSimulationFlags(flags *pflag.FlagSet) {
	d := force.DefaultParams()
	flags.Float64("stiffness", d.Stiffness, "spring stiffness")
	flags.Float64("repulsion", d.Repulsion, "node repulsion strength")
	flags.Float64("damping", d.Damping, "velocity damping in (0,1]")
	flags.Float64("threshold", d.Threshold, "kinetic energy that counts as converged")
	flags.Float64("time-step", 0.016, "seconds per simulation step")
	flags.Int("max-steps", 20000, "step limit (0 = until converged)")
	flags.Bool("planar", false, "lay out in 2D")
	flags.String("law", force.LawLinear.String(), "repulsion law: linear or inverse-square")
	flags.Bool("lenient", false, "create points for nodes outside the graph instead of failing")
}

// BindRandomFlags registers the random graph flags.
func BindRandomFlags(flags *pflag.FlagSet) {
	flags.Int("nodes", 100, "number of nodes")
	flags.Int("edges", 500, "number of edge draws")
	flags.Int64("seed", 0, "random seed")
	BindIDFlag(flags)
}

// BindIDFlag registers the id style flag.
func BindIDFlag(flags *pflag.FlagSet) {
	flags.String("ids", IDsSequence, "generated id style: sequence or uuid")
}

// BindLimitFlags registers the server's graph size limits.
func BindLimitFlags(flags *pflag.FlagSet) {
	flags.Int("max-nodes", DefaultMaxNodes, "largest graph a session may hold, in nodes")
	flags.Int("max-edges", DefaultMaxEdges, "largest graph a session may hold, in edges")
}

// mapProvider feeds a plain map into koanf.
type mapProvider struct {
	m map[string]any
}

func makeMapProvider(m map[string]any) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]any, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("not implemented")
}
