package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caseforge/pagevault/internal/domain"
)

// Validator checks a source before any loading happens.
type Validator struct {
	provider domain.ByteRangeProvider
}

// NewValidator creates a validator backed by the given provider
func NewValidator(provider domain.ByteRangeProvider) *Validator {
	return &Validator{provider: provider}
}

// Validate confirms the source exists, is non-empty, and carries a PDF
// extension, and returns its resolved descriptor. All failures are
// invalid-input errors; nothing has been allocated yet at this point.
func (v *Validator) Validate(path string) (domain.SourceDescriptor, error) {
	if strings.TrimSpace(path) == "" {
		return domain.SourceDescriptor{}, domain.InvalidInputError("file path cannot be empty", nil)
	}

	size, err := v.provider.Size(path)
	if err != nil {
		return domain.SourceDescriptor{}, domain.InvalidInputError(fmt.Sprintf("cannot access file: %s", path), err)
	}
	if size == 0 {
		return domain.SourceDescriptor{}, domain.InvalidInputError(fmt.Sprintf("file is empty: %s", path), nil)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return domain.SourceDescriptor{}, domain.InvalidInputError(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}

	return domain.SourceDescriptor{Path: path, Size: size}, nil
}
