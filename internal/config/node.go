package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMissingAttribute is wrapped by ConfigError when a required attribute is absent.
var ErrMissingAttribute = errors.New("missing attribute")

// ConfigError reports a missing or malformed configuration attribute.
type ConfigError struct {
	Projection string // display name of the projection being configured
	Attribute  string
	Err        error
}

func (e *ConfigError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("%s: %v", e.Projection, e.Err)
	}
	return fmt.Sprintf("%s: attribute %q: %v", e.Projection, e.Attribute, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Node is a named container of string attributes. Projections export their
// parameters to a Node and can be rebuilt from one.
type Node struct {
	Name  string
	Attrs map[string]string
}

// NewNode returns an empty node with the given name.
func NewNode(name string) *Node {
	return &Node{Name: name, Attrs: make(map[string]string)}
}

// Set stores a raw attribute value.
func (n *Node) Set(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// SetFloat stores v using the shortest representation that parses back to
// the same float64.
func (n *Node) SetFloat(key string, v float64) {
	n.Set(key, strconv.FormatFloat(v, 'g', -1, 64))
}

func (n *Node) SetInt(key string, v int) {
	n.Set(key, strconv.Itoa(v))
}

func (n *Node) SetBool(key string, v bool) {
	n.Set(key, strconv.FormatBool(v))
}

// Get returns the trimmed attribute value and whether it was present.
func (n *Node) Get(key string) (string, bool) {
	v, ok := n.Attrs[key]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Has reports whether the attribute is present.
func (n *Node) Has(key string) bool {
	_, ok := n.Attrs[key]
	return ok
}

// String returns a required attribute.
func (n *Node) String(key string) (string, error) {
	v, ok := n.Get(key)
	if !ok || v == "" {
		return "", n.errorf(key, ErrMissingAttribute)
	}
	return v, nil
}

// Float parses a required float attribute.
func (n *Node) Float(key string) (float64, error) {
	s, err := n.String(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, n.errorf(key, errors.Wrapf(err, "parse %q", s))
	}
	return v, nil
}

// Int parses a required integer attribute.
func (n *Node) Int(key string) (int, error) {
	s, err := n.String(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, n.errorf(key, errors.Wrapf(err, "parse %q", s))
	}
	return v, nil
}

// Bool parses an optional boolean attribute, returning def when absent.
func (n *Node) Bool(key string, def bool) (bool, error) {
	s, ok := n.Get(key)
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def, n.errorf(key, errors.Wrapf(err, "parse %q", s))
	}
	return v, nil
}

// Keys returns the attribute names in sorted order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := NewNode(n.Name)
	for k, v := range n.Attrs {
		c.Attrs[k] = v
	}
	return c
}

// Errorf builds a ConfigError for this node's projection.
func (n *Node) Errorf(key, format string, args ...interface{}) error {
	return n.errorf(key, errors.Newf(format, args...))
}

func (n *Node) errorf(key string, err error) error {
	return &ConfigError{Projection: n.Name, Attribute: key, Err: err}
}
