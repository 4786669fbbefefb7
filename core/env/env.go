// Package env is the environment-variable substrate shared by expansion
// and the builtins.
package env

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Env is the environment lookup collaborator.
type Env interface {
	// Getenv returns the value for key, or "" when unset.
	Getenv(key string) string
	// LookupEnv returns the value for key and whether it was set.
	LookupEnv(key string) (string, bool)
	// Setenv binds key to value.
	Setenv(key, value string) error
	// Unsetenv removes key.
	Unsetenv(key string) error
	// Environ lists the environment as "key=value" strings.
	Environ() []string
}

// OSEnv is the process-wide environment. Commands spawned by the shell
// inherit it directly.
type OSEnv struct{}

var _ Env = OSEnv{}

func (OSEnv) Getenv(key string) string            { return os.Getenv(key) }
func (OSEnv) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (OSEnv) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (OSEnv) Unsetenv(key string) error           { return os.Unsetenv(key) }
func (OSEnv) Environ() []string                   { return os.Environ() }

// NewMapEnv creates an empty in-memory environment.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromList creates an in-memory environment from "key=value"
// entries. Entries without '=' become keys with empty values.
func NewMapEnvFromList(environ []string) *MapEnv {
	out := &MapEnv{}
	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		_ = out.Setenv(key, value)
	}
	return out
}

// MapEnv implements Env backed by a map. It is safe for concurrent use.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

var _ Env = (*MapEnv)(nil)

func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

func (m *MapEnv) Setenv(key, value string) error {
	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

func (m *MapEnv) Unsetenv(key string) error {
	m.rw.Lock()
	defer m.rw.Unlock()
	if m.env != nil {
		delete(m.env, key)
	}
	return nil
}

func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	var environ []string
	for k, v := range m.env {
		environ = append(environ, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(environ)
	return environ
}
