// Package domain translates MCP tool calls into game service commands.
//
// Each tool has an input and result type, a Tool constructor describing it to
// clients, and a Handler constructor bound to a GameClient. Handlers attach
// request and invocation ids to the outgoing call and echo them back in the
// tool result metadata.
package domain
