package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
	"github.com/drippinrizz/xano-db-visualizer/internal/config"
	"github.com/drippinrizz/xano-db-visualizer/internal/deploy"
	"github.com/drippinrizz/xano-db-visualizer/internal/graph"
	"github.com/drippinrizz/xano-db-visualizer/internal/observability"
	"github.com/drippinrizz/xano-db-visualizer/internal/wizard"
	"github.com/drippinrizz/xano-db-visualizer/internal/xano"
)

// newSetupCmd creates and configures the `setup` command: the interactive
// wizard that connects, selects tables and deploys the visualizer endpoints.
func newSetupCmd() *cobra.Command {
	var (
		workspaceFlag string
		tablesFlag    string
		assumeYes     bool
		dryRun        bool
	)

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactive wizard: pick a workspace and tables, deploy the visualizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			w := wizard.New(os.Stdin, os.Stdout)
			w.Banner("xano-viz setup")

			client, err := newXanoClient(cfg, w, logger)
			if err != nil {
				return err
			}

			workspace, err := resolveWorkspace(ctx, client, w, workspaceFlag)
			if err != nil {
				return err
			}
			logger.Info("Workspace selected",
				zap.String("name", workspace.Name),
				zap.Int("id", workspace.ID),
			)

			tables, err := resolveTables(ctx, client, w, workspace.ID, tablesFlag)
			if err != nil {
				return err
			}

			// Build a snapshot up front: it validates access to every table
			// and lets the operator see the graph before anything deploys.
			data, err := client.BuildSnapshot(ctx, workspace.ID, tables)
			if err != nil {
				return fmt.Errorf("failed to fetch table data: %w", err)
			}
			g := graph.NewBuilder(logger).Build(data)
			w.Infof("Graph: %d tables, %d nodes, %d edges",
				g.Stats.TableCount, g.Stats.NodeCount, g.Stats.EdgeCount)

			if dryRun {
				w.Successf("Dry run: nothing deployed")
				return nil
			}
			if !assumeYes {
				ok, err := w.Confirm(fmt.Sprintf("Deploy %q and %q to workspace %q?",
					cfg.Deploy.DataEndpoint, cfg.Deploy.PageEndpoint, workspace.Name))
				if err != nil {
					return err
				}
				if !ok {
					w.Infof("Aborted, nothing deployed")
					return nil
				}
			}

			tableNames := make([]string, len(tables))
			for i, t := range tables {
				tableNames[i] = t.Name
			}
			deployer := deploy.NewDeployer(client, logger)
			res, err := deployer.Deploy(ctx, workspace.ID, deploy.Options{
				GroupName:    cfg.Deploy.GroupName,
				DataEndpoint: cfg.Deploy.DataEndpoint,
				PageEndpoint: cfg.Deploy.PageEndpoint,
				Title:        cfg.Deploy.Title,
				Tables:       tableNames,
			})
			if err != nil {
				return err
			}

			w.Successf("Deployed to API group %q (id %d)", cfg.Deploy.GroupName, res.GroupID)
			w.Infof("Data endpoint: %s (%s)", cfg.Deploy.DataEndpoint, createdOrUpdated(res.DataCreated))
			w.Infof("Page endpoint: %s (%s)", cfg.Deploy.PageEndpoint, createdOrUpdated(res.PageCreated))
			return nil
		},
	}

	setupCmd.Flags().StringVar(&workspaceFlag, "workspace", "", "workspace id or name (skips the prompt)")
	setupCmd.Flags().StringVar(&tablesFlag, "tables", "", "comma-separated table names (skips the prompt)")
	setupCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "deploy without asking for confirmation")
	setupCmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch and build the graph but deploy nothing")
	return setupCmd
}

func createdOrUpdated(created bool) string {
	if created {
		return "created"
	}
	return "updated"
}

// newXanoClient builds the metadata API client, prompting for a token when
// the config carries none, and warns about expired tokens before any call.
func newXanoClient(cfg *config.Config, w *wizard.Wizard, logger *zap.Logger) (*xano.Client, error) {
	xcfg := xano.Config{
		BaseURL:      cfg.Xano.BaseURL,
		Token:        cfg.Xano.Token,
		RateLimit:    cfg.Xano.RateLimit,
		Timeout:      cfg.Xano.Timeout,
		PageSize:     cfg.Xano.PageSize,
		MaxRowsTable: cfg.Xano.MaxRowsTable,
	}
	if xcfg.BaseURL == "" {
		base, err := w.Prompt("Xano metadata API base URL (e.g. https://x1234-abcd.xano.io/api:meta)")
		if err != nil || base == "" {
			return nil, fmt.Errorf("xano.base_url is not set (flag --base-url, env XANOVIZ_XANO_BASE_URL, or config file)")
		}
		xcfg.BaseURL = base
	}
	if xcfg.Token == "" {
		token, err := w.Prompt("Xano metadata API access token")
		if err != nil || token == "" {
			return nil, fmt.Errorf("xano.token is not set (flag --token, env XANOVIZ_XANO_TOKEN, or config file)")
		}
		xcfg.Token = token
	}

	if info, err := xano.InspectToken(xcfg.Token); err == nil {
		if info.Expired() {
			w.Errorf("Access token expired at %s", info.ExpiresAt.Format(time.RFC3339))
		} else if !info.ExpiresAt.IsZero() {
			w.Infof("Token valid until %s", info.ExpiresAt.Format(time.RFC3339))
		}
	}

	return xano.NewClient(xcfg, logger)
}

// resolveWorkspace picks a workspace from the flag (id or name) or the
// interactive prompt.
func resolveWorkspace(ctx context.Context, client *xano.Client, w *wizard.Wizard, flag string) (schemas.Workspace, error) {
	workspaces, err := client.ListWorkspaces(ctx)
	if err != nil {
		return schemas.Workspace{}, fmt.Errorf("failed to list workspaces: %w", err)
	}
	if flag == "" {
		return w.PickWorkspace(workspaces)
	}
	for _, ws := range workspaces {
		if strings.EqualFold(ws.Name, flag) {
			return ws, nil
		}
		if id, err := strconv.Atoi(flag); err == nil && ws.ID == id {
			return ws, nil
		}
	}
	return schemas.Workspace{}, fmt.Errorf("workspace %q not found", flag)
}

// resolveTables picks tables from the flag (comma-separated names, or "all")
// or the interactive prompt. Selection order is preserved: it decides both
// graph-data key order and foreign-key resolution order.
func resolveTables(ctx context.Context, client *xano.Client, w *wizard.Wizard, workspaceID int, flag string) ([]schemas.Table, error) {
	tables, err := client.ListTables(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	if flag == "" {
		return w.PickTables(tables)
	}
	if strings.EqualFold(flag, "all") {
		return tables, nil
	}

	byName := make(map[string]schemas.Table, len(tables))
	for _, t := range tables {
		byName[strings.ToLower(t.Name)] = t
	}
	var selected []schemas.Table
	for _, name := range strings.Split(flag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("table %q not found in workspace", name)
		}
		selected = append(selected, t)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no tables selected")
	}
	return selected, nil
}
