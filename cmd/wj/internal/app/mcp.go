package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxhq/windjammer/internal/querydb"
	"github.com/oxhq/windjammer/mcp"
)

func newMCPCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the Windjammer compiler as an MCP JSON-RPC server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := newRegistry()
			backend, ok := reg.Get(cfg.Target)
			if !ok {
				return fmt.Errorf("wj: unknown target backend %q", cfg.Target)
			}
			srv := mcp.NewServer(backend, logger(cfg))
			if cfg.SnapshotDSN != "" {
				snap, err := querydb.OpenSnapshot(cfg.SnapshotDSN, cfg.Verbose)
				if err != nil {
					return err
				}
				srv.AttachSnapshot(snap)
			}
			return srv.Start(cmd.Context())
		},
	}
}
