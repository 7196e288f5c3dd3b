package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxhq/windjammer/internal/diag"
)

func newExplainCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <code>",
		Short: "Show the short and long explanation for a WJNNNN diagnostic code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			exp, ok := diag.Catalog[code]
			if !ok {
				return fmt.Errorf("wj: unknown diagnostic code %q", code)
			}
			if cfg.JSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(exp)
			}
			fmt.Printf("%s: %s\n\n%s\n", exp.Code, exp.Short, exp.Long)
			return nil
		},
	}
}
