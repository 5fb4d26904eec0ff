package gates

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the project-level ionasm.toml: it maps usepulses module names
// to the gate catalog files that define them.
//
//	[pulses]
//	mypulses = "catalogs/mypulses.toml"
type Manifest struct {
	Dir    string
	Pulses map[string]string
}

type manifestFile struct {
	Pulses map[string]string `toml:"pulses"`
}

// LoadManifest reads an ionasm.toml. Relative catalog paths resolve against
// the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse manifest: %w", path, err)
	}
	return &Manifest{
		Dir:    filepath.Dir(path),
		Pulses: cfg.Pulses,
	}, nil
}

// Resolver returns a usepulses resolver backed by the manifest. Unknown
// modules resolve to nil without error: the builder then synthesizes untyped
// definitions, which keeps header-only inspection cheap.
func (m *Manifest) Resolver() Resolver {
	return func(module string) (Table, error) {
		path, ok := m.Pulses[module]
		if !ok {
			return nil, nil
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.Dir, path)
		}
		return LoadTOML(path)
	}
}
