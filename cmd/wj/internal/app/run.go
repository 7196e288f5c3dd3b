package app

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newRunCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file.wj>",
		Short: "Compile a Windjammer source file and run the generated binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := buildFile(cfg, args[0])
			if err != nil {
				return err
			}
			printResult(cfg, result)
			if result.CodeOut == "" {
				return fmt.Errorf("wj: %s failed to compile, see diagnostics above", args[0])
			}
			return cargo(cfg, args[0], "run")
		},
	}
}

func newTestCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "test <file.wj>",
		Short: "Compile a Windjammer source file and run its @test functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := buildFile(cfg, args[0])
			if err != nil {
				return err
			}
			printResult(cfg, result)
			if result.CodeOut == "" {
				return fmt.Errorf("wj: %s failed to compile, see diagnostics above", args[0])
			}
			return cargo(cfg, args[0], "test")
		},
	}
}

// cargo shells out to the target toolchain against the directory build
// just wrote a manifest into, mirroring how the teacher's CLI treats
// "apply changes then report" as two distinct, separately-failable steps.
func cargo(cfg *Config, path, subcommand string) error {
	outDir := cfg.Out
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	cmd := exec.Command("cargo", subcommand)
	cmd.Dir = outDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("wj: cargo %s: %w", subcommand, err)
	}
	return nil
}
