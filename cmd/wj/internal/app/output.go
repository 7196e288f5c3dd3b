package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oxhq/windjammer/internal/core"
	"github.com/oxhq/windjammer/internal/diag"
)

// printResult renders result as either human text or --json-framed
// diagnostics, matching the teacher's handleOutputAndExit dual-mode
// output (text by default, a single JSON payload under --json).
func printResult(cfg *Config, result *core.Result) {
	if cfg.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}

	for _, d := range result.Diagnostics {
		printDiagnosticText(d)
	}
	if len(result.Diagnostics) == 0 {
		fmt.Printf("✓ %s — no diagnostics\n", result.Path)
	}
	if result.CodeOut != "" {
		fmt.Printf("✓ %s — compiled to %s target (%s), %d bytes in %s\n",
			result.Path, result.Engine.Target, result.Hash[:12], len(result.CodeOut), result.Stats.Duration)
	}
}

func printDiagnosticText(d diag.Diagnostic) {
	marker := "error"
	if d.Severity == diag.Warning {
		marker = "warning"
	} else if d.Severity == diag.Info {
		marker = "info"
	}
	fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: [%s] %s\n", d.Primary.Unit, d.Primary.Line, d.Primary.Column, marker, d.Code, d.Message)
	for _, fix := range d.Fixes {
		fmt.Fprintf(os.Stderr, "  help: %s\n", fix.Description)
	}
}
