package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ZB56/VLM-humor/internal/config"
	"github.com/ZB56/VLM-humor/internal/mcp"
)

func runMCP(args []string, g globalFlags) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	rc, err := config.ResolveConfig(config.ResolveOptions{ConfigPath: g.configPath})
	if err != nil {
		return err
	}
	if g.verbose {
		printResolved(rc)
	}

	srv := mcp.NewServer(mcp.ServerConfig{Version: version, Config: rc})
	if err := server.ServeStdio(srv); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
