package service

import (
	"context"
	"time"

	"github.com/locvowork/array_to_excel/internal/logger"
	"github.com/locvowork/array_to_excel/internal/service/serviceutils"
	"github.com/locvowork/array_to_excel/pkg/arrayexcel"
)

// ParamDataJSON is the single tool parameter carrying the payload.
const ParamDataJSON = "data_json"

type ConverterService interface {
	// Invoke runs one conversion and answers with exactly one message.
	Invoke(ctx context.Context, params map[string]interface{}) serviceutils.ToolMessage
}

type converterService struct {
	converter *arrayexcel.Converter
}

func NewConverterService(converter *arrayexcel.Converter) ConverterService {
	return &converterService{converter: converter}
}

func (s *converterService) Invoke(ctx context.Context, params map[string]interface{}) serviceutils.ToolMessage {
	start := time.Now()

	att, err := s.converter.Convert(ctx, params[ParamDataJSON])
	if err != nil {
		if arrayexcel.IsInternal(err) {
			logger.ErrorLog(ctx, "conversion failed unexpectedly: %v", err)
		} else {
			logger.WarnLog(ctx, "conversion rejected: %v", err)
		}
		return serviceutils.ErrorMessage(err)
	}

	logger.InfoLog(ctx, "converted payload into %s (%d bytes) in %s", att.Filename, len(att.Blob), time.Since(start))
	return serviceutils.BlobMessage(att.Blob, serviceutils.BlobMeta{
		MIMEType:       att.MIMEType,
		OutputFilename: att.Filename,
	})
}
