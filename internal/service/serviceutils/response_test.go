package serviceutils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	err := errors.New("boom")
	failed := ErrorMessage(err)
	assert.False(t, failed.IsBlob())
	assert.Equal(t, MessageTypeText, failed.Type)
	assert.Equal(t, "boom", failed.Text)
	assert.Same(t, err, failed.Err)

	blob := BlobMessage([]byte{1, 2}, BlobMeta{MIMEType: "application/octet-stream", OutputFilename: "x.bin"})
	assert.True(t, blob.IsBlob())
}

func TestResponseBlob(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	msg := BlobMessage([]byte("PK.."), BlobMeta{MIMEType: "application/zip", OutputFilename: "out.zip"})
	if assert.NoError(t, ResponseBlob(c, msg)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/zip", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, `attachment; filename="out.zip"`, rec.Header().Get(echo.HeaderContentDisposition))
		assert.Equal(t, "4", rec.Header().Get(echo.HeaderContentLength))
		assert.Equal(t, "PK..", rec.Body.String())
	}
}
