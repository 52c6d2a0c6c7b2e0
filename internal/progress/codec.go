package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// WriteJSON writes the export object with two-space indentation.
// encoding/json sorts map keys, so output is stable.
func WriteJSON(w io.Writer, s *Store) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.ExportAll()); err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	return nil
}

// ReadJSON decodes an export object from r and merges it into s. The payload
// is decoded completely first, so a syntax error leaves s untouched.
func ReadJSON(r io.Reader, s *Store) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read progress: %w", err)
	}
	var payload any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&payload); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if dec.More() {
		return ImportResult{}, fmt.Errorf("%w: trailing data after object", ErrInvalidFormat)
	}
	res, err := s.ImportMerge(payload)
	if err != nil {
		return ImportResult{}, err
	}
	if res.Skipped > 0 {
		logrus.WithFields(logrus.Fields{
			"accepted": res.Accepted,
			"skipped":  res.Skipped,
		}).Debug("skipped malformed progress entries")
	}
	return res, nil
}

// ExportFile writes the store to path through a temp file and rename.
func ExportFile(path string, s *Store) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "progress-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			err = multierr.Append(err, ignoreClosed(tmpFile.Close()))
			_ = os.Remove(tmpPath)
		}
	}()

	if err = WriteJSON(tmpFile, s); err != nil {
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logrus.WithFields(logrus.Fields{"path": path, "entries": s.Len()}).Info("exported progress")
	return nil
}

// ImportFile merges the export file at path into s.
func ImportFile(path string, s *Store) (res ImportResult, err error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open import: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	res, err = ReadJSON(f, s)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import %s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{
		"path":     path,
		"accepted": res.Accepted,
		"skipped":  res.Skipped,
	}).Info("imported progress")
	return res, nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
