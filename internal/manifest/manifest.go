// Package manifest records what a single EDA run read and produced.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/churneda-cli/internal/cleaning"
	"github.com/KaramelBytes/churneda-cli/internal/utils"
)

// FileName is the manifest file written into the reports directory.
const FileName = "manifest.json"

// Manifest describes one pipeline run. It is rewritten on every run.
type Manifest struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	DataPath   string         `json:"data_path"`
	ReportPath string         `json:"report_path"`
	Rows       int            `json:"rows"`
	Columns    int            `json:"columns"`
	ChurnRate  float64        `json:"churn_rate"`
	Figures    []string       `json:"figures"`
	Cleaning   cleaning.Stats `json:"cleaning"`
}

// New starts a manifest with a fresh run id.
func New(dataPath, reportPath string) *Manifest {
	return &Manifest{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		DataPath:   dataPath,
		ReportPath: reportPath,
	}
}

// Save stamps the finish time and writes the manifest into dir.
func (m *Manifest) Save(dir string) error {
	if dir == "" {
		return errors.New("manifest directory not set")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	m.FinishedAt = time.Now()
	if m.Figures == nil {
		m.Figures = []string{}
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(dir, FileName), data)
}

// Load reads the manifest stored in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
