package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxhq/windjammer/internal/core"
	"github.com/oxhq/windjammer/internal/querydb"
	"github.com/oxhq/windjammer/providers"
	"github.com/oxhq/windjammer/providers/catalog"
	"github.com/oxhq/windjammer/providers/rust"
)

func newBuildCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "build <file.wj>",
		Short: "Compile a Windjammer source file to the target backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := buildFile(cfg, args[0])
			if err != nil {
				return err
			}
			printResult(cfg, result)
			return nil
		},
	}
}

// newTargetsCmd lists every registered target backend and the output
// extension it produces, read from the shared catalog rather than the
// registry directly so it reflects every registry in this process that has
// called Register (the registry instance backing `build`/`run`/`test`, not
// just this one).
func newTargetsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List available code-generation target backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			newRegistry() // ensure the catalog is populated for this process
			for _, info := range catalog.Backends() {
				fmt.Printf("%s\t%s\n", info.ID, strings.Join(info.Extensions, ", "))
			}
			return nil
		},
	}
}

// newRegistry builds a backend registry with every known target wired in.
// Rust is the only complete implementation (§1); the registry exists so
// --target can be validated and extended without touching call sites.
func newRegistry() *providers.Registry {
	reg := providers.NewRegistry()
	_ = reg.Register(rust.New(), "rs")
	return reg
}

// resolveBackend looks target up by its registered name/alias first; if that
// fails and target looks like an output file extension instead (".rs", or
// just "rs" with the dot omitted), it falls back to the shared catalog's
// extension index. This lets --target accept either a backend's name or the
// extension of the source it produces.
func resolveBackend(reg *providers.Registry, target string) (providers.Backend, bool) {
	if backend, ok := reg.Get(target); ok {
		return backend, true
	}
	ext := target
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	info, ok := catalog.LookupByExtension(ext)
	if !ok {
		return nil, false
	}
	return reg.Get(info.ID)
}

// buildFile runs the full compile pipeline over path and, unless --out
// suppresses it, writes the emitted source plus its Cargo.toml manifest to
// disk. It returns the compiler (so `run`/`test` can reuse its session)
// alongside the compile result.
func buildFile(cfg *Config, path string) (*core.Compiler, *core.Result, error) {
	reg := newRegistry()
	backend, ok := resolveBackend(reg, cfg.Target)
	if !ok {
		return nil, nil, fmt.Errorf("wj: unknown target backend %q", cfg.Target)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("wj: read %s: %w", path, err)
	}

	compiler := core.NewCompiler(backend, logger(cfg))
	if cfg.SnapshotDSN != "" {
		snap, err := querydb.OpenSnapshot(cfg.SnapshotDSN, cfg.Verbose)
		if err != nil {
			return nil, nil, fmt.Errorf("wj: open snapshot cache: %w", err)
		}
		compiler.AttachSnapshot(snap)
	}

	compiler.DB.Open(path, string(src))
	result, err := compiler.Compile(context.Background(), path)
	if err != nil {
		return compiler, nil, fmt.Errorf("wj: compile %s: %w", path, err)
	}

	if result.CodeOut != "" {
		if err := writeOutputs(cfg, backend, path, result); err != nil {
			return compiler, result, err
		}
	}
	return compiler, result, nil
}

func writeOutputs(cfg *Config, backend providers.Backend, path string, result *core.Result) error {
	outDir := cfg.Out
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("wj: create output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	srcPath := filepath.Join(outDir, base+backend.FileExtension())
	if err := os.WriteFile(srcPath, []byte(result.CodeOut), 0o644); err != nil {
		return fmt.Errorf("wj: write %s: %w", srcPath, err)
	}

	manifest, err := backend.Manifest(nil)
	if err != nil {
		return fmt.Errorf("wj: synthesize manifest: %w", err)
	}
	result.Manifest = manifest
	manifestPath := filepath.Join(outDir, "Cargo.toml")
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		return fmt.Errorf("wj: write %s: %w", manifestPath, err)
	}
	return nil
}
