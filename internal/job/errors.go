package job

import (
	"fmt"

	"github.com/kbukum/beer-inventory/errors"
	"github.com/kbukum/beer-inventory/internal/beer"
)

// Stage failure codes. Reader failures keep the code of the source error.
const (
	ErrCodeProcessing errors.ErrorCode = "PROCESSING_ERROR"
	ErrCodeSink       errors.ErrorCode = "SINK_ERROR"
)

func processingError(b beer.Beer, cause error) *errors.AppError {
	return errors.New(ErrCodeProcessing, fmt.Sprintf("processing beer %q failed", b.Name)).
		WithCause(cause).
		WithDetail("beer_id", b.ID)
}

func sinkError(chunk []beer.Beer, cause error) *errors.AppError {
	return errors.New(ErrCodeSink, fmt.Sprintf("writing chunk of %d beers failed", len(chunk))).
		WithCause(cause).
		WithDetail("chunk_size", len(chunk))
}
