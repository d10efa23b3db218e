package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/adapters/driving/mcp"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so coding agents can search,
fetch and render prompts.

Every stored prompt is exposed as an MCP prompt named by its id, with one
argument per template variable. The tools search_prompts, get_prompt,
render_prompt and refresh_prompts and the resource jfp://prompts are also
available.

By default the server speaks JSON-RPC over stdio. Use --port to serve the
streamable HTTP transport instead.

Examples:
  # Stdio mode (default, for desktop agents)
  jfp mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  jfp mcp serve --port 8080

Agent configuration:
  {
    "mcpServers": {
      "jfp": {
        "command": "/path/to/jfp",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cmd.Context(), &mcp.Ports{
		Prompts:  svc,
		Registry: registryService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		// stdout stays clean for stdio clients, so the address goes to stderr.
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		logger.Info("mcp server listening on %s", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	logger.Debug("mcp server running on stdio")
	return server.Run(cmd.Context())
}
