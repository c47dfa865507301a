// Package pushorder reads the push-order manifest used by external
// deployment tools that upload source files in a fixed sequence, and runs
// order-independence validation against it.
//
// The manifest never makes code correct — definitions registered through
// framework/resolve are correct under any parse order. Its job here is the
// opposite: to describe which file declares which names so the harness can
// deliberately replay declaration in hostile orders (reversed, shuffled)
// and prove resolution still succeeds.
package pushorder

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/BurntSushi/toml"
)

// File is one source unit in the push order.
type File struct {
	// Name is the file's path as the deployment tool sees it.
	Name string `toml:"name"`

	// Provides lists the definition names this file registers.
	Provides []string `toml:"provides"`
}

// Manifest is the decoded push-order configuration.
//
//	[[file]]
//	name     = "child.src"
//	provides = ["Child"]
//
//	[[file]]
//	name     = "parent.src"
//	provides = ["Parent"]
type Manifest struct {
	Files []File `toml:"file"`
}

// Load reads and validates a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pushorder: read %s: %w", path, err)
	}
	m, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("pushorder: %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a manifest from TOML text.
func Parse(data string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(data, &m); err != nil {
		return nil, fmt.Errorf("pushorder: decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest invariants: at least one file, no empty or
// duplicate file names, no definition name provided by two files.
func (m *Manifest) Validate() error {
	if len(m.Files) == 0 {
		return fmt.Errorf("pushorder: manifest lists no files")
	}
	seenFile := make(map[string]bool)
	seenName := make(map[string]string) // definition → file
	for _, f := range m.Files {
		if f.Name == "" {
			return fmt.Errorf("pushorder: file with empty name")
		}
		if seenFile[f.Name] {
			return fmt.Errorf("pushorder: duplicate file [%s]", f.Name)
		}
		seenFile[f.Name] = true
		for _, p := range f.Provides {
			if p == "" {
				return fmt.Errorf("pushorder: file [%s] provides an empty name", f.Name)
			}
			if other, ok := seenName[p]; ok {
				return fmt.Errorf("pushorder: [%s] provided by both [%s] and [%s]", p, other, f.Name)
			}
			seenName[p] = f.Name
		}
	}
	return nil
}

// Names returns every provided definition name, in manifest order.
func (m *Manifest) Names() []string {
	var out []string
	for _, f := range m.Files {
		out = append(out, f.Provides...)
	}
	return out
}

// Order returns the files in manifest order.
func (m *Manifest) Order() []File {
	out := make([]File, len(m.Files))
	copy(out, m.Files)
	return out
}

// Reversed returns the files in reverse manifest order — the conventional
// worst case, dependents pushed before their dependencies.
func (m *Manifest) Reversed() []File {
	out := m.Order()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Shuffled returns the files in a seed-determined random order. The same
// seed always yields the same order, so failing runs are reproducible.
func (m *Manifest) Shuffled(seed int64) []File {
	out := m.Order()
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
