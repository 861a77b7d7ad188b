package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	appconfig "hyperflow/config"
	"hyperflow/internal/models"
	"hyperflow/logger"
)

// ArtifactWriter serializes the snapshot to its JSON artifact. The document
// is written to a temp file in the target directory and renamed into place
// so the viewer never observes a half-written file.
type ArtifactWriter struct {
	config *appconfig.Config
	log    *logger.Log
}

// NewArtifactWriter creates an artifact writer for the configured output path.
func NewArtifactWriter(cfg *appconfig.Config) *ArtifactWriter {
	return &ArtifactWriter{
		config: cfg,
		log:    logger.GetLogger(),
	}
}

// Encode renders the snapshot as the stable artifact document: fixed field
// order from the struct definitions, plain decimal numbers, no HTML
// escaping, trailing newline.
func Encode(snapshot *models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snapshot); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes the snapshot and atomically replaces the artifact at the
// configured path. The previous artifact is left untouched on any failure.
// It returns the encoded bytes so callers can publish the same document
// elsewhere.
func (w *ArtifactWriter) Write(snapshot *models.Snapshot) ([]byte, error) {
	data, err := Encode(snapshot)
	if err != nil {
		return nil, err
	}

	outputPath := w.config.Writer.OutputPath
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(outputPath)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return nil, fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return nil, fmt.Errorf("sync temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("chmod temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("replace artifact: %w", err)
	}

	w.log.WithComponent("artifact_writer").WithFields(logger.Fields{
		"path":  outputPath,
		"bytes": len(data),
	}).Info("artifact written")

	return data, nil
}
