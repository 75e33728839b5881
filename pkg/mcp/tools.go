package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health of the relay service and whether the board is connected"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("read_relays",
			mcp.WithDescription("Read the state of all 32 relays from the board"),
		),
		s.handleReadRelays,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("write_relays",
			mcp.WithDescription("Set all 32 relays at once. Pass exactly one of binary, hex or channels."),
			mcp.WithString("binary",
				mcp.Description("32 characters of 0/1, channel 0 first (e.g. 1111000011110000...)"),
			),
			mcp.WithString("hex",
				mcp.Description("Up to 8 hex digits, channel 0 is the most significant bit (e.g. f0f0f0f0)"),
			),
			mcp.WithArray("channels",
				mcp.Description("Exactly 32 booleans, channel 0 first"),
				mcp.Items(map[string]any{"type": "boolean"}),
			),
		),
		s.handleWriteRelays,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_channel",
			mcp.WithDescription("Switch a single relay channel, leaving the others unchanged"),
			mcp.WithNumber("channel",
				mcp.Required(),
				mcp.Description("Channel index from 0 to 31"),
			),
			mcp.WithBoolean("on",
				mcp.Required(),
				mcp.Description("true to energize the relay, false to release it"),
			),
		),
		s.handleSetChannel,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("all_on",
			mcp.WithDescription("Switch every relay on"),
		),
		s.handleAllOn,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("all_off",
			mcp.WithDescription("Switch every relay off"),
		),
		s.handleAllOff,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_panel",
			mcp.WithDescription("Get the control panel view: mirrored relay state, status line, last command and running routine"),
		),
		s.handleGetPanel,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_routines",
			mcp.WithDescription("List the timed relay routines that can be started"),
		),
		s.handleListRoutines,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("start_routine",
			mcp.WithDescription("Start a routine in the background. Fails if another routine is running."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Routine name (e.g. routine1)"),
			),
		),
		s.handleStartRoutine,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("cancel_routine",
			mcp.WithDescription("Cancel the running routine"),
			mcp.WithString("id",
				mcp.Description("Run ID to cancel (optional, defaults to whatever is running)"),
			),
		),
		s.handleCancelRoutine,
	)
}
