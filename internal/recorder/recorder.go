// Package recorder persists completed interview transcripts as JSON files.
package recorder

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	filenameLayout = "20060102-150405"
	filePerm       = 0o644
	dirPerm        = 0o755
)

var (
	now       = time.Now
	newSuffix = randomSuffix
)

// Record is the transcript of one scored interview round.
type Record struct {
	Timestamp      string   `json:"timestamp"`
	JobDescription string   `json:"job_description"`
	Resume         string   `json:"resume"`
	Questions      []string `json:"questions"`
	Answers        []string `json:"answers"`
	Scores         []int    `json:"scores"`
}

// Save writes the record into dir as <UTC timestamp>_<8 hex>.json and returns
// the path. dir and its parents are created when missing. The file appears
// under its final name only after it was completely written.
func Save(record *Record, dir string) (string, error) {
	if record == nil {
		return "", fmt.Errorf("record is required")
	}

	if err := Validate(record); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.json", now().UTC().Format(filenameLayout), newSuffix()))

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return "", fmt.Errorf("creating session file: %w", err)
	}

	if err := write(tmp, record); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filename); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("moving session file to %s: %w", filename, err)
	}

	return filename, nil
}

func write(file *os.File, record *Record) error {
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(record); err != nil {
		file.Close()
		return err
	}

	if err := file.Chmod(filePerm); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func randomSuffix() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}
