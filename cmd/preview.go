package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
	"github.com/drippinrizz/xano-db-visualizer/internal/observability"
	"github.com/drippinrizz/xano-db-visualizer/internal/server"
	"github.com/drippinrizz/xano-db-visualizer/internal/wizard"
)

// newPreviewCmd creates the `preview` command: serve the visualizer locally
// from a graph-data JSON file or a fresh snapshot, without deploying.
func newPreviewCmd() *cobra.Command {
	var (
		inputFlag     string
		workspaceFlag string
		tablesFlag    string
		addrFlag      string
	)

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the visualizer locally from a snapshot or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var data schemas.GraphData
			if inputFlag != "" {
				raw, err := os.ReadFile(inputFlag)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", inputFlag, err)
				}
				if err := data.UnmarshalJSON(raw); err != nil {
					return fmt.Errorf("failed to parse %s: %w", inputFlag, err)
				}
			} else {
				w := wizard.New(os.Stdin, os.Stdout)
				client, err := newXanoClient(cfg, w, logger)
				if err != nil {
					return err
				}
				workspace, err := resolveWorkspace(ctx, client, w, workspaceFlag)
				if err != nil {
					return err
				}
				tables, err := resolveTables(ctx, client, w, workspace.ID, tablesFlag)
				if err != nil {
					return err
				}
				snapshot, err := client.BuildSnapshot(ctx, workspace.ID, tables)
				if err != nil {
					return fmt.Errorf("failed to fetch table data: %w", err)
				}
				data = *snapshot
			}

			addr := cfg.Preview.Addr
			if addrFlag != "" {
				addr = addrFlag
			}
			preview, err := server.NewPreview(server.Config{
				Addr:         addr,
				Title:        cfg.Deploy.Title + " (preview)",
				AllowOrigins: cfg.Preview.AllowOrigins,
			}, &data, logger)
			if err != nil {
				return err
			}

			logger.Info("Preview ready", zap.String("url", "http://"+addr+"/"))
			return preview.Run(ctx)
		},
	}

	previewCmd.Flags().StringVar(&inputFlag, "input", "", "serve from a graph-data JSON file instead of fetching")
	previewCmd.Flags().StringVar(&workspaceFlag, "workspace", "", "workspace id or name (skips the prompt)")
	previewCmd.Flags().StringVar(&tablesFlag, "tables", "", "comma-separated table names, or 'all' (skips the prompt)")
	previewCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides preview.addr)")
	return previewCmd
}
