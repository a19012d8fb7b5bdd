// Package config loads compiler settings from an optional YAML file and
// JANUS_SPARQL_* environment variables.
package config

import (
	"errors"
	"strings"
	"unicode"

	"github.com/spf13/viper"

	"github.com/wbrown/janus-sparql/sparql"
	"github.com/wbrown/janus-sparql/sparql/compiler"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "JANUS_SPARQL"

// Config is the top-level compiler configuration.
type Config struct {
	Graphs  GraphsConfig  `mapstructure:"graphs"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Compile CompileConfig `mapstructure:"compile"`
}

// GraphsConfig names the system graphs and the protocol-level dataset.
type GraphsConfig struct {
	FallbackDefault string   `mapstructure:"fallback_default"`
	TypeModel       string   `mapstructure:"type_model"`
	Default         []string `mapstructure:"default"`
	Named           []string `mapstructure:"named"`
}

// CatalogConfig locates the system graph catalog. An empty path keeps the
// catalog in memory.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// CompileConfig controls compile-time output.
type CompileConfig struct {
	Annotate bool `mapstructure:"annotate"`
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix JANUS_SPARQL_).
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("graphs.fallback_default", sparql.FallbackDefaultGraph)
	v.SetDefault("graphs.type_model", sparql.TypeModelGraph)
	v.SetDefault("graphs.default", []string{})
	v.SetDefault("graphs.named", []string{})
	v.SetDefault("catalog.path", "")
	v.SetDefault("compile.annotate", false)

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, sparqlerr.Errorf(sparqlerr.CodeConfigInvalid, "reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, sparqlerr.Errorf(sparqlerr.CodeConfigInvalid, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, sparqlerr.Errorf(sparqlerr.CodeConfigInvalid, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors, collecting every
// issue rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	if c.Graphs.FallbackDefault == "" {
		errs = append(errs, sparqlerr.Errorf(sparqlerr.CodeConfigInvalid,
			"config: graphs.fallback_default must not be empty"))
	} else if err := checkIRI("graphs.fallback_default", c.Graphs.FallbackDefault); err != nil {
		errs = append(errs, err)
	}

	if c.Graphs.TypeModel == "" {
		errs = append(errs, sparqlerr.Errorf(sparqlerr.CodeConfigInvalid,
			"config: graphs.type_model must not be empty"))
	} else if err := checkIRI("graphs.type_model", c.Graphs.TypeModel); err != nil {
		errs = append(errs, err)
	}

	for _, iri := range c.Graphs.Default {
		if err := checkIRI("graphs.default", iri); err != nil {
			errs = append(errs, err)
		}
	}
	for _, iri := range c.Graphs.Named {
		if err := checkIRI("graphs.named", iri); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// checkIRI rejects values that cannot be written between angle brackets
func checkIRI(key, iri string) error {
	if iri == "" {
		return sparqlerr.Errorf(sparqlerr.CodeConfigInvalid, "config: %s must not contain empty IRIs", key)
	}
	if strings.ContainsAny(iri, "<>\"{}|^`\\") || strings.IndexFunc(iri, unicode.IsSpace) >= 0 {
		return sparqlerr.Errorf(sparqlerr.CodeConfigInvalid, "config: %s contains an invalid IRI %q", key, iri)
	}
	return nil
}

// CompilerOptions converts the configuration to compiler options. The
// catalog and annotation collector are wired by the caller.
func (c *Config) CompilerOptions() compiler.Options {
	return compiler.Options{
		DefaultGraphs:   c.Graphs.Default,
		NamedGraphs:     c.Graphs.Named,
		FallbackDefault: c.Graphs.FallbackDefault,
		TypeModel:       c.Graphs.TypeModel,
	}
}
