package gates_test

import (
	"os"
	"path/filepath"
	"testing"

	"ionasm/internal/gates"
	"ionasm/internal/ir"
)

const catalog = `
[gate.Sx]
params = ["q:qubit"]

[gate.MS]
params = ["q0:qubit", "q1:qubit", "axis:float", "angle:float"]
ideal = "ms"

[gate.Rn]
params = ["qubit", "float"]

[gate.prepare_all]
role = "prepare"

[gate.measure_all]
role = "measure"
`

func TestParseTOML(t *testing.T) {
	table, err := gates.ParseTOML("catalog", catalog)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(table) != 5 {
		t.Fatalf("gates: %d", len(table))
	}

	ms := table["MS"]
	if ms.QubitArity() != 2 {
		t.Errorf("MS qubit arity: %d", ms.QubitArity())
	}
	if ms.Params[2].Name != "axis" || ms.Params[2].Kind != ir.KindFloat {
		t.Errorf("MS params: %+v", ms.Params)
	}
	if ms.Ideal != "ms" {
		t.Errorf("MS ideal: %v", ms.Ideal)
	}

	// Bare kinds get synthesized parameter names.
	rn := table["Rn"]
	if rn.Params[0].Name != "p0" || rn.Params[0].Kind != ir.KindQubit {
		t.Errorf("Rn params: %+v", rn.Params)
	}

	if table["prepare_all"].Role != ir.RolePrepare || !table["prepare_all"].WholeRegister() {
		t.Errorf("prepare_all: %+v", table["prepare_all"])
	}
	if table["measure_all"].Role != ir.RoleMeasure {
		t.Errorf("measure_all: %+v", table["measure_all"])
	}
}

func TestParseTOMLErrors(t *testing.T) {
	if _, err := gates.ParseTOML("bad", "[gate.X]\nparams = [\"q:quantum\"]"); err == nil {
		t.Error("unknown kind accepted")
	}
	if _, err := gates.ParseTOML("bad", "[gate.X]\nrole = \"observe\""); err == nil {
		t.Error("unknown role accepted")
	}
	if _, err := gates.ParseTOML("bad", "gate = ["); err == nil {
		t.Error("malformed TOML accepted")
	}
}

func TestTableMerge(t *testing.T) {
	base := gates.Table{"Sx": &ir.GateDef{Name: "Sx"}}
	extra := gates.Table{
		"Sx": &ir.GateDef{Name: "Sx", Role: ir.RolePrepare},
		"Sy": &ir.GateDef{Name: "Sy"},
	}
	merged := base.Merge(extra)
	if len(merged) != 2 {
		t.Fatalf("merged size: %d", len(merged))
	}
	if merged["Sx"].Role != ir.RolePrepare {
		t.Error("later table must win on collision")
	}
	if len(base) != 1 {
		t.Error("merge mutated the receiver")
	}
}

func TestManifestResolver(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "std.toml")
	if err := os.WriteFile(catalogPath, []byte(catalog), 0o644); err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(dir, "ionasm.toml")
	manifest := "[pulses]\n\"qscout.v1.std\" = \"std.toml\"\n"
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := gates.LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	resolve := m.Resolver()

	table, err := resolve("qscout.v1.std")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if _, ok := table["MS"]; !ok {
		t.Errorf("resolved table: %v", table.Names())
	}

	// Unknown modules resolve to nothing, without error.
	table, err = resolve("nonexistent.module")
	if err != nil || table != nil {
		t.Errorf("unknown module: table=%v err=%v", table, err)
	}
}
