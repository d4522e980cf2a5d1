package sbom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// IndexFileName is the name of the optional file listing which documents in a
// directory should be loaded.
const IndexFileName = "index.json"

// ReadIndex returns the names of the documents in dir.
//
// If dir has an index file, it must be a JSON array of file names and is used
// as-is. Otherwise every other .json file in dir is a document, sorted by name.
func ReadIndex(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	if err == nil {
		return parseIndex(data)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", IndexFileName, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read SBOM directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}

	if len(names) == 0 {
		return nil, ErrNoDocuments
	}

	slices.Sort(names)

	return names, nil
}

func parseIndex(data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not valid JSON", IndexFileName)
	}

	index := gjson.ParseBytes(data)
	if !index.IsArray() {
		return nil, fmt.Errorf("%s must be an array of file names", IndexFileName)
	}

	var names []string
	for _, entry := range index.Array() {
		if entry.Type != gjson.String || entry.String() == "" {
			return nil, fmt.Errorf("%s must be an array of file names, found %s", IndexFileName, entry.Raw)
		}
		names = append(names, entry.String())
	}

	if len(names) == 0 {
		return nil, ErrNoDocuments
	}

	return names, nil
}
