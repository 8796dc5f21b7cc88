// Package capture persists run artifacts: screenshots, step records,
// and the final result.
package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

var _ output.CaptureSink = (*FileSink)(nil)

const (
	stepsFile  = "steps.jsonl"
	resultFile = "result.json"
)

// FileSink lays artifacts out per task:
//
//	<dir>/<task-slug>/00.jpeg        one screenshot per step, gapless
//	<dir>/<task-slug>/steps.jsonl    one record per line, append order
//	<dir>/<task-slug>/result.json    final status summary
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "dataset"
	}
	return &FileSink{dir: dir}
}

func (s *FileSink) SaveStep(task entity.Task, rec entity.StepRecord, shot *entity.Screenshot) (string, error) {
	dir, err := s.taskDir(task)
	if err != nil {
		return "", err
	}

	var shotPath string
	if shot != nil && len(shot.Data) > 0 {
		shotPath = filepath.Join(dir, fmt.Sprintf("%02d.jpeg", rec.Index))
		if err := os.WriteFile(shotPath, shot.Data, 0644); err != nil {
			return "", fmt.Errorf("write screenshot: %w", err)
		}
	}
	rec.ScreenshotPath = shotPath

	line, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode step record: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, stepsFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", stepsFile, err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return "", fmt.Errorf("append step record: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", stepsFile, err)
	}
	return shotPath, nil
}

func (s *FileSink) SaveResult(task entity.Task, res entity.RunResult) error {
	dir, err := s.taskDir(task)
	if err != nil {
		return err
	}

	summary := struct {
		RunID  string           `json:"run_id"`
		Task   string           `json:"task"`
		Status entity.RunStatus `json:"status"`
		Steps  int              `json:"steps"`
	}{
		RunID:  res.RunID,
		Task:   res.Task,
		Status: res.Status,
		Steps:  len(res.Steps),
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, resultFile), append(data, '\n'), 0644)
}

func (s *FileSink) taskDir(task entity.Task) (string, error) {
	dir := filepath.Join(s.dir, task.Slug())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create task dir: %w", err)
	}
	return dir, nil
}
