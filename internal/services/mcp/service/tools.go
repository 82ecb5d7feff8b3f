package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/minefield/internal/services/mcp/domain"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

func registerGameTools(
	registrar mcpRegistrationTarget,
	client domain.GameClient,
	grants *domain.GrantStore,
	notify domain.ResourceUpdateNotifier,
) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.GameCreateTool(), handler: domain.GameCreateHandler(client, grants, notify)},
		{tool: domain.GameGetTool(), handler: domain.GameGetHandler(client)},
		{tool: domain.CellOpenTool(), handler: domain.CellOpenHandler(client, grants, notify)},
		{tool: domain.FlagToggleTool(), handler: domain.FlagToggleHandler(client, grants, notify)},
		{tool: domain.GameRevealTool(), handler: domain.GameRevealHandler(client, grants, notify)},
		{tool: domain.GameListTool(), handler: domain.GameListHandler(client)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerEventTools(registrar mcpRegistrationTarget, client domain.GameClient) error {
	return registerTool(registrar, domain.EventListTool(), domain.EventListHandler(client))
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

// registerGameResources registers readable game MCP resources.
func registerGameResources(registrar mcpRegistrationTarget, client domain.GameClient) {
	registrar.AddResource(domain.GameListResource(), domain.GameListResourceHandler(client))
	registrar.AddResourceTemplate(domain.GameResourceTemplate(), domain.GameResourceHandler(client))
}
