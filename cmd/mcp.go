package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/pomo/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an MCP-capable assistant read your focus statistics. Configure
it with:

  {
    "mcpServers": {
      "pomo": { "command": "pomo", "args": ["mcp"] }
    }
  }

Available tools: pomo_stats, pomo_recent_sessions, pomo_heatmap`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := getStore()
		if err != nil {
			return err
		}
		return mcp.NewServer(s, cfg.DailyGoalSessions, buildVersion).ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
