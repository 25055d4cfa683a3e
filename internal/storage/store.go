package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fracnet/fracnet/internal/config"
	"github.com/fracnet/fracnet/internal/train"
)

// Store archives training runs on disk. Each run gets its own directory
// containing metadata.json and history.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Domain    string             `json:"domain"`
	MeshType  string             `json:"mesh_type"`
	Alpha     float64            `json:"alpha"`
	Epochs    int                `json:"epochs"`
	Seed      int64              `json:"seed"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(name string, cfg *config.Config, result *train.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Domain:    cfg.Domain.Kind,
		MeshType:  cfg.MeshType,
		Alpha:     result.Alpha,
		Epochs:    result.Epochs,
		Seed:      cfg.Train.Seed,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	cfgPath := filepath.Join(runDir, "config.yaml")
	if err := config.Save(cfgPath, cfg); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "history.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"epoch", "train_bc", "train_residual", "test_bc", "test_residual"}); err != nil {
		return "", err
	}

	for i := range result.TrainHistory {
		row := []string{strconv.Itoa(i)}
		for _, val := range result.TrainHistory[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 8, 64))
		}
		if i < len(result.TestHistory) {
			for _, val := range result.TestHistory[i] {
				row = append(row, strconv.FormatFloat(val, 'g', 8, 64))
			}
		} else {
			row = append(row, "0", "0")
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}
