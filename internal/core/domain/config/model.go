package configdomain

import (
	"encoding/json"
	"sort"
	"strings"
)

// ConfigNameVar selects which configuration (and compose file) is used.
const ConfigNameVar = "APPLICATION_CONFIG"

const (
	DefaultConfigName = "development"
	TestingConfigName = "testing"
)

// Composite keys always hold the JSON text of their value.
const (
	MongoDBSettingsKey = "MONGODB_SETTINGS"
	DebugPanelsKey     = "DEBUG_TB_PANELS"
)

// IsCompositeKey reports whether key is stored as serialized JSON text.
func IsCompositeKey(key string) bool {
	return key == MongoDBSettingsKey || key == DebugPanelsKey
}

// Record is a single {name, value} entry of a configuration file.
// Value keeps the raw JSON text so object key order survives serialization.
type Record struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// Environment is an immutable variable mapping. Methods that change it
// return a new value and leave the receiver untouched.
type Environment struct {
	vars map[string]string
}

// NewEnvironment copies vars into a new Environment.
func NewEnvironment(vars map[string]string) Environment {
	cp := make(map[string]string, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return Environment{vars: cp}
}

// FromEnviron builds an Environment from KEY=VALUE pairs as returned by
// os.Environ. Entries without '=' are ignored; the first occurrence of a
// key wins.
func FromEnviron(environ []string) Environment {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		if _, exists := vars[key]; exists {
			continue
		}
		vars[key] = value
	}
	return Environment{vars: vars}
}

// Lookup returns the value of key and whether it is set. A key set to the
// empty string is still set.
func (e Environment) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Get returns the value of key or "" when unset.
func (e Environment) Get(key string) string {
	return e.vars[key]
}

// Has reports whether key is set.
func (e Environment) Has(key string) bool {
	_, ok := e.vars[key]
	return ok
}

// Len returns the number of variables.
func (e Environment) Len() int {
	return len(e.vars)
}

// With returns a copy of e with key set to value, replacing any existing value.
func (e Environment) With(key, value string) Environment {
	next := NewEnvironment(e.vars)
	next.vars[key] = value
	return next
}

// WithDefault returns a copy of e with key set to value only if key is unset.
func (e Environment) WithDefault(key, value string) Environment {
	if e.Has(key) {
		return e
	}
	return e.With(key, value)
}

// ConfigName returns the active configuration name, falling back to
// DefaultConfigName when APPLICATION_CONFIG is unset.
func (e Environment) ConfigName() string {
	if v, ok := e.Lookup(ConfigNameVar); ok {
		return v
	}
	return DefaultConfigName
}

// Keys returns the variable names in sorted order.
func (e Environment) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the underlying variables.
func (e Environment) Map() map[string]string {
	return NewEnvironment(e.vars).vars
}

// Environ materializes e as sorted KEY=VALUE pairs for exec.Cmd.Env.
func (e Environment) Environ() []string {
	keys := e.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

// ComposeFile is a resolved compose file and the services it declares.
type ComposeFile struct {
	Path     string
	Services []string
}
