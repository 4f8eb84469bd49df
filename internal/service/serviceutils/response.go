package serviceutils

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type GenericResponse struct {
	Success bool
	Message string
	Data    interface{}
	Error   string
}

// MessageType distinguishes the two kinds of tool messages.
type MessageType string

const (
	MessageTypeText MessageType = "text"
	MessageTypeBlob MessageType = "blob"
)

// BlobMeta describes a binary attachment.
type BlobMeta struct {
	MIMEType       string `json:"mime_type"`
	OutputFilename string `json:"output_filename"`
}

// ToolMessage is the single message a tool invocation answers with: either a
// human-readable text or a binary attachment.
type ToolMessage struct {
	Type MessageType
	Text string
	Blob []byte
	Meta BlobMeta
	// Err is the failure behind a text message, kept for status mapping.
	Err error `json:"-"`
}

func ErrorMessage(err error) ToolMessage {
	return ToolMessage{Type: MessageTypeText, Text: err.Error(), Err: err}
}

func BlobMessage(blob []byte, meta BlobMeta) ToolMessage {
	return ToolMessage{Type: MessageTypeBlob, Blob: blob, Meta: meta}
}

func (m ToolMessage) IsBlob() bool {
	return m.Type == MessageTypeBlob
}

func ResponseSuccess(c echo.Context, code int, msg string, data interface{}) error {
	return c.JSON(code, GenericResponse{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func ResponseError(c echo.Context, code int, msg string, err error) error {
	resp := GenericResponse{
		Success: false,
		Message: msg,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}

// ResponseBlob writes a blob message as a file download.
func ResponseBlob(c echo.Context, msg ToolMessage) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, msg.Meta.OutputFilename))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(msg.Blob)))
	return c.Blob(http.StatusOK, msg.Meta.MIMEType, msg.Blob)
}

// ResponseText writes a text message as plain text.
func ResponseText(c echo.Context, code int, msg ToolMessage) error {
	return c.String(code, msg.Text)
}
