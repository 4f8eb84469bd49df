// Package toolserver exposes the conversion as an MCP tool.
package toolserver

import (
	"context"
	"encoding/base64"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/locvowork/array_to_excel/internal/logger"
	"github.com/locvowork/array_to_excel/internal/service"
	"github.com/locvowork/array_to_excel/internal/service/serviceutils"
)

// ToolName is the name the conversion is registered under.
const ToolName = "array_to_excel"

type ToolServer struct {
	svc service.ConverterService
	mcp *server.MCPServer
}

func New(name, version string, svc service.ConverterService) *ToolServer {
	ts := &ToolServer{
		svc: svc,
		mcp: server.NewMCPServer(name, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	ts.mcp.AddTool(newArrayToExcelTool(), ts.HandleArrayToExcel)
	return ts
}

func newArrayToExcelTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Convert a JSON two-dimensional array into an xlsx spreadsheet. "+
			"Supports col_widths, row_heights, merges and cell_styles."),
		mcp.WithString(service.ParamDataJSON,
			mcp.Required(),
			mcp.Description(`JSON text such as {"data": [["a", 1]], "col_widths": {"1": 20}, `+
				`"row_heights": {"1": 30}, "merges": [{"start_row": 1, "start_col": 1, "end_row": 1, "end_col": 2}], `+
				`"cell_styles": [{"start_row": 1, "start_col": 1, "style": {"bold": true, "bgcolor": "DDEBF7"}}]}`),
		),
	)
}

// ServeStdio serves the tool over stdin/stdout until the input closes.
func (ts *ToolServer) ServeStdio() error {
	return server.ServeStdio(ts.mcp)
}

// HandleArrayToExcel answers a tools/call request for ToolName.
func (ts *ToolServer) HandleArrayToExcel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.DebugLog(ctx, "tool %s invoked", req.Params.Name)
	msg := ts.svc.Invoke(ctx, req.GetArguments())
	return toolResult(msg), nil
}

func toolResult(msg serviceutils.ToolMessage) *mcp.CallToolResult {
	if !msg.IsBlob() {
		return mcp.NewToolResultError(msg.Text)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewEmbeddedResource(mcp.BlobResourceContents{
				URI:      "file:///" + msg.Meta.OutputFilename,
				MIMEType: msg.Meta.MIMEType,
				Blob:     base64.StdEncoding.EncodeToString(msg.Blob),
			}),
		},
	}
}
