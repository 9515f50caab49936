// -----------------------------------------------------------------------
// PDF Validator Service - upload boundary check for candidate documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scribe/internal/interfaces"
)

// Validator implements the DocumentValidator interface using pdfcpu. It
// enforces the upload boundary: a single existing, structurally valid PDF
// file. The gateway itself never checks file types.
type Validator struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.DocumentValidator = (*Validator)(nil)

// NewValidator creates a new PDF validator service
func NewValidator(logger arbor.ILogger) *Validator {
	return &Validator{
		logger: logger,
	}
}

// Validate checks the file at path and returns its page count. Error
// messages are user-displayable and surface directly as upload errors.
func (v *Validator) Validate(path string) (int, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return 0, errors.New("Only PDF files are supported")
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("File not found: %s", path)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("Not a file: %s", path)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		v.logger.Debug().Str("file", path).Err(err).Msg("PDF validation failed")
		return 0, fmt.Errorf("Not a valid PDF file: %s", filepath.Base(path))
	}

	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, fmt.Errorf("Not a valid PDF file: %s", filepath.Base(path))
	}

	v.logger.Debug().
		Str("file", path).
		Int("pages", pdfCtx.PageCount).
		Msg("PDF validated")

	return pdfCtx.PageCount, nil
}
