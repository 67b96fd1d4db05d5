package mcp

import (
	"github.com/google/uuid"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
// Events raised through MCP tools carry actor as their actor ID.
func NewCLIApp(container *app.Container, actor uuid.UUID) *cli.App {
	cliApp := cli.NewApp(container)
	cliApp.SetActorID(actor)
	return cliApp
}
