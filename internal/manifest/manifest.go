// Package manifest synthesizes a target ecosystem's build manifest (a
// Cargo.toml, for the Rust backend) from the stdlib-module imports a
// compiled program used.
//
// Grounded on the teacher's providers/catalog (a registry of language
// metadata keyed by id) and internal/registry (canonical-name + alias +
// extension maps), generalized from "identify a language by its metadata"
// to "identify a dependency crate by its stdlib module name".
package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// crateFor maps a Windjammer stdlib module import (e.g. "std::http") to the
// Rust crate (with pinned version) that backs it.
var crateFor = map[string]crateDep{
	"std::http":  {Name: "reqwest", Version: "0.12", Features: []string{"json"}},
	"std::json":  {Name: "serde_json", Version: "1"},
	"std::regex": {Name: "regex", Version: "1"},
	"std::ws":    {Name: "tokio-tungstenite", Version: "0.23"},
	"std::db":    {Name: "sqlx", Version: "0.8", Features: []string{"runtime-tokio", "sqlite"}},
}

// alwaysPresent lists crates every generated program depends on regardless
// of which stdlib modules it imports (serde's derive machinery backs the
// Serialize/Deserialize impls auto-derive can produce, and tokio backs any
// generated async fn / await point).
var alwaysPresent = []crateDep{
	{Name: "serde", Version: "1", Features: []string{"derive"}},
	{Name: "tokio", Version: "1", Features: []string{"full"}},
}

type crateDep struct {
	Name     string
	Version  string
	Features []string
}

// Synthesize walks imports (stdlib module paths resolved by Pass A's use
// graph) and renders a Cargo.toml pulling in the crate each one maps to,
// alongside the always-present runtime/serialization crates. Unknown import
// strings (anything not under "std::") are skipped rather than rejected, so
// a program's own internal module imports don't need filtering out first.
func Synthesize(packageName string, imports []string) (string, error) {
	if packageName == "" {
		return "", fmt.Errorf("manifest: package name cannot be empty")
	}

	deps := map[string]crateDep{}
	for _, d := range alwaysPresent {
		deps[d.Name] = d
	}
	for _, imp := range imports {
		dep, ok := crateFor[imp]
		if !ok {
			continue
		}
		deps[dep.Name] = dep
	}

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "[package]\n")
	fmt.Fprintf(&b, "name = %q\n", packageName)
	fmt.Fprintf(&b, "version = \"0.1.0\"\n")
	fmt.Fprintf(&b, "edition = \"2021\"\n")
	fmt.Fprintf(&b, "\n[dependencies]\n")
	for _, name := range names {
		dep := deps[name]
		if len(dep.Features) == 0 {
			fmt.Fprintf(&b, "%s = %q\n", dep.Name, dep.Version)
			continue
		}
		features := make([]string, len(dep.Features))
		for i, f := range dep.Features {
			features[i] = fmt.Sprintf("%q", f)
		}
		fmt.Fprintf(&b, "%s = { version = %q, features = [%s] }\n", dep.Name, dep.Version, strings.Join(features, ", "))
	}
	return b.String(), nil
}
