package classifier

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/renameio/v2"
	"github.com/navossoc/bayesian"
)

type artifact struct {
	Version    int       `json:"version"`
	TrainedAt  time.Time `json:"trained_at"`
	Documents  int       `json:"documents"`
	Labels     []string  `json:"labels"`
	Classifier []byte    `json:"classifier,omitempty"`
}

// Save writes the model to path. The file is written to a temporary file in
// the same directory and renamed over path, so readers see either the old or
// the new artifact.
func (m *Model) Save(path string) error {
	a := artifact{
		Version:   ArtifactVersion,
		TrainedAt: m.TrainedAt,
		Documents: m.Documents,
		Labels:    m.labels,
	}
	if m.nb != nil {
		var buf bytes.Buffer
		if err := m.nb.WriteTo(&buf); err != nil {
			return fmt.Errorf("failed to encode classifier: %w", err)
		}
		a.Classifier = buf.Bytes()
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	return nil
}

// Load reads a model artifact written by Save.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("unsupported model artifact version %d", a.Version)
	}
	if len(a.Labels) == 0 || a.Documents == 0 {
		return nil, fmt.Errorf("model artifact %s has no classes", path)
	}

	m := &Model{TrainedAt: a.TrainedAt, Documents: a.Documents, labels: a.Labels}
	if len(a.Labels) == 1 {
		return m, nil
	}
	nb, err := bayesian.NewClassifierFromReader(bytes.NewReader(a.Classifier))
	if err != nil {
		return nil, fmt.Errorf("failed to decode classifier: %w", err)
	}
	if len(nb.Classes) != len(a.Labels) {
		return nil, fmt.Errorf("model artifact %s has %d labels but %d classifier classes", path, len(a.Labels), len(nb.Classes))
	}
	for i, c := range nb.Classes {
		if string(c) != a.Labels[i] {
			return nil, fmt.Errorf("model artifact %s label %q does not match classifier class %q", path, a.Labels[i], c)
		}
	}
	m.nb = nb
	return m, nil
}
