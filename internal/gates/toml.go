package gates

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"ionasm/internal/ir"
)

// catalogFile mirrors the TOML catalog layout:
//
//	[gate.Sx]
//	params = ["q:qubit"]
//
//	[gate.MS]
//	params = ["q0:qubit", "q1:qubit", "axis:float", "angle:float"]
//	ideal = "ms"
//
//	[gate.prepare_all]
//	role = "prepare"
type catalogFile struct {
	Gate map[string]catalogGate `toml:"gate"`
}

type catalogGate struct {
	Params []string `toml:"params"`
	Role   string   `toml:"role"`
	Ideal  string   `toml:"ideal"`
}

// LoadTOML reads a gate catalog file into a Table.
func LoadTOML(path string) (Table, error) {
	var cfg catalogFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse gate catalog: %w", path, err)
	}
	return tableFromCatalog(path, cfg)
}

// ParseTOML reads a gate catalog from in-memory TOML text.
func ParseTOML(name, text string) (Table, error) {
	var cfg catalogFile
	if _, err := toml.Decode(text, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse gate catalog: %w", name, err)
	}
	return tableFromCatalog(name, cfg)
}

func tableFromCatalog(origin string, cfg catalogFile) (Table, error) {
	out := make(Table, len(cfg.Gate))
	for name, g := range cfg.Gate {
		params, err := parseParams(g.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: gate %s: %w", origin, name, err)
		}
		role, err := parseRole(g.Role)
		if err != nil {
			return nil, fmt.Errorf("%s: gate %s: %w", origin, name, err)
		}
		def := &ir.GateDef{
			Name:   name,
			Params: params,
			Role:   role,
		}
		if g.Ideal != "" {
			def.Ideal = g.Ideal
		}
		out[name] = def
	}
	return out, nil
}

// parseParams accepts "name:kind" entries, or a bare kind with a synthesized
// parameter name.
func parseParams(entries []string) ([]ir.Parameter, error) {
	params := make([]ir.Parameter, 0, len(entries))
	for i, entry := range entries {
		name, kindText, found := strings.Cut(entry, ":")
		if !found {
			kindText = name
			name = fmt.Sprintf("p%d", i)
		}
		kind, err := parseKind(strings.TrimSpace(kindText))
		if err != nil {
			return nil, err
		}
		params = append(params, ir.Parameter{Name: strings.TrimSpace(name), Kind: kind})
	}
	return params, nil
}

func parseKind(text string) (ir.ParamKind, error) {
	switch text {
	case "qubit":
		return ir.KindQubit, nil
	case "float":
		return ir.KindFloat, nil
	case "int":
		return ir.KindInt, nil
	case "register":
		return ir.KindRegister, nil
	case "untyped", "":
		return ir.KindUntyped, nil
	}
	return ir.KindUntyped, fmt.Errorf("unknown parameter kind %q", text)
}

func parseRole(text string) (ir.GateRole, error) {
	switch text {
	case "", "standard":
		return ir.RoleStandard, nil
	case "prepare":
		return ir.RolePrepare, nil
	case "measure":
		return ir.RoleMeasure, nil
	}
	return ir.RoleStandard, fmt.Errorf("unknown gate role %q", text)
}
