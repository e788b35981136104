package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/illusthaey/savinghaey/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the corpus to AI
assistants. The server offers two tools: ask (grounded Korean answer
with citations) and retrieve (raw evidence chunks).

By default the server communicates over stdio using JSON-RPC; use
--port to serve HTTP instead.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "savinghaey": {
        "command": "/path/to/savinghaey",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initEngine(ctx); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Engine:    engine,
		Retriever: engine,
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
