package config

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Settings holds the settings file contents: logging options and a list of
// named projection definitions.
type Settings struct {
	LogLevel    string           `mapstructure:"log_level"`
	LogFormat   string           `mapstructure:"log_format"`
	Projections []ProjectionSpec `mapstructure:"projections"`
}

// ProjectionSpec is the on-disk form of a Node. ID distinguishes several
// definitions of the same projection (e.g. two UTM zones); it defaults to Name.
type ProjectionSpec struct {
	ID         string            `mapstructure:"id"`
	Name       string            `mapstructure:"name"`
	Attributes map[string]string `mapstructure:"attributes"`
}

// Key returns the lookup key of the entry.
func (p ProjectionSpec) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.Name
}

// Node converts the entry to a configuration node.
func (p ProjectionSpec) Node() *Node {
	n := NewNode(p.Name)
	for k, v := range p.Attributes {
		n.Set(k, v)
	}
	return n
}

// Load reads settings from path (any format viper understands) and from
// MAPPROJ_* environment variables. An empty path looks for mapproj.yaml in
// the working directory and ./configs, and tolerates its absence.
func Load(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName("mapproj")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		_ = v.ReadInConfig() // OK if missing
	}

	// MAPPROJ_LOG_LEVEL → log_level
	v.SetEnvPrefix("MAPPROJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings for unknown log options and malformed
// projection entries.
func (s *Settings) Validate() error {
	var errs []string

	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log_level must be debug, info, warn or error, got %q", s.LogLevel))
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log_format must be text or json, got %q", s.LogFormat))
	}

	seen := make(map[string]bool)
	for i, p := range s.Projections {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("projections[%d].name is required", i))
			continue
		}
		if seen[p.Key()] {
			errs = append(errs, fmt.Sprintf("projections[%d]: duplicate id %q", i, p.Key()))
		}
		seen[p.Key()] = true
	}

	if len(errs) > 0 {
		return errors.Newf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Lookup returns the node for the projection with the given id or name.
func (s *Settings) Lookup(key string) (*Node, error) {
	for _, p := range s.Projections {
		if strings.EqualFold(p.Key(), key) {
			return p.Node(), nil
		}
	}
	return nil, errors.Newf("projection %q not defined", key)
}

// Write exports settings to path; the format follows the file extension.
func Write(path string, s *Settings) error {
	v := viper.New()
	v.Set("log_level", s.LogLevel)
	v.Set("log_format", s.LogFormat)

	projections := make([]map[string]interface{}, 0, len(s.Projections))
	for _, p := range s.Projections {
		attrs := make(map[string]interface{}, len(p.Attributes))
		for k, val := range p.Attributes {
			attrs[k] = val
		}
		entry := map[string]interface{}{
			"name":       p.Name,
			"attributes": attrs,
		}
		if p.ID != "" {
			entry["id"] = p.ID
		}
		projections = append(projections, entry)
	}
	v.Set("projections", projections)

	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

// SpecFromNode converts a node to its on-disk form.
func SpecFromNode(id string, n *Node) ProjectionSpec {
	attrs := make(map[string]string, len(n.Attrs))
	for k, v := range n.Attrs {
		attrs[k] = v
	}
	return ProjectionSpec{ID: id, Name: n.Name, Attributes: attrs}
}
