package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// readJSON reads one document from a collection directory. It returns
// (nil, nil) when the document does not exist so callers decide how absence
// maps onto their error contract.
func readJSON[T any](dir, id string) (*T, error) {
	filePath := filepath.Clean(path.Join(dir, id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}

	var doc T

	err = json.Unmarshal(body, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}

	return &doc, nil
}

// writeJSON stores one document in a collection directory, creating the
// directory on first use.
func writeJSON(dir, id string, doc any) error {
	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create collection directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", id, err)
	}

	return os.WriteFile(path.Join(dir, id+".json"), data, 0600)
}

// listJSON reads every document in a collection directory. A missing
// directory is an empty collection.
func listJSON[T any](dir string) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*T{}, nil
		}

		return nil, fmt.Errorf("failed to read collection directory: %w", err)
	}

	docs := make([]*T, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")

		doc, err := readJSON[T](dir, id)
		if err != nil {
			return nil, err
		}

		if doc != nil {
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// removeJSON deletes one document. Removing an absent document is a no-op.
func removeJSON(dir, id string) error {
	err := os.Remove(path.Join(dir, id+".json"))
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	return nil
}
