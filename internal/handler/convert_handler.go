package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/array_to_excel/internal/service"
	"github.com/locvowork/array_to_excel/internal/service/serviceutils"
	"github.com/locvowork/array_to_excel/pkg/arrayexcel"
)

// ConvertRequest is the HTTP envelope. DataJSON may be JSON text (possibly
// encoded twice) or an embedded object.
type ConvertRequest struct {
	DataJSON interface{} `json:"data_json"`
}

type ConvertHandler struct {
	svc service.ConverterService
}

func NewConvertHandler(svc service.ConverterService) *ConvertHandler {
	return &ConvertHandler{svc: svc}
}

// ConvertHandler handles POST /api/v1/convert
func (h *ConvertHandler) ConvertHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req ConvertRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}

	msg := h.svc.Invoke(ctx, map[string]interface{}{service.ParamDataJSON: req.DataJSON})
	if msg.IsBlob() {
		return serviceutils.ResponseBlob(c, msg)
	}
	return serviceutils.ResponseText(c, statusFor(msg.Err), msg)
}

// HealthHandler handles GET /healthz
func (h *ConvertHandler) HealthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", nil)
}

func statusFor(err error) int {
	if err == nil {
		return http.StatusBadRequest
	}
	if arrayexcel.IsInternal(err) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
