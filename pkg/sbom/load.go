package sbom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbomscope/sbomscope/pkg/models"
	"github.com/tidwall/gjson"
)

// Parse detects the format of a JSON document and normalizes it, tagging every
// package with name as its source.
func Parse(name string, data []byte) ([]models.Package, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DocumentError{Name: name, Err: fmt.Errorf("%w: not valid JSON", ErrUnsupportedFormat)}
	}

	switch DetectFormat(gjson.ParseBytes(data)) {
	case FormatCycloneDX:
		bom, err := decodeCycloneDX(data)
		if err != nil {
			return nil, &DocumentError{Name: name, Err: err}
		}

		return NormalizeCycloneDX(bom, name), nil
	case FormatSPDX:
		doc, err := decodeSPDX(data)
		if err != nil {
			return nil, &DocumentError{Name: name, Err: err}
		}

		return NormalizeSPDX(doc, name), nil
	case FormatUnsupported:
	}

	return nil, &DocumentError{Name: name, Err: ErrUnsupportedFormat}
}

// LoadFile reads and parses the named document from dir.
func LoadFile(dir, name string) ([]models.Package, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, &DocumentError{Name: name, Err: err}
	}

	return Parse(name, data)
}

// LoadAll loads every named document from dir, in order.
//
// A document that fails to load does not stop the others from loading: the
// packages of every successful document are returned along with the joined
// errors of the ones that failed.
func LoadAll(dir string, names []string) ([]models.Package, error) {
	if len(names) == 0 {
		return nil, ErrNoDocuments
	}

	var errs []error
	packages := []models.Package{}

	for _, name := range names {
		pkgs, err := LoadFile(dir, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		packages = append(packages, pkgs...)
	}

	return packages, errors.Join(errs...)
}
