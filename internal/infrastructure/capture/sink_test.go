package capture

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webpilot/internal/domain/entity"
)

var testTask = entity.Task{Name: "Buy Socks", Goal: "buy a pair of socks"}

func readRecords(t *testing.T, dir string) []entity.StepRecord {
	t.Helper()

	f, err := os.Open(filepath.Join(dir, "buy-socks", stepsFile))
	require.NoError(t, err)
	defer f.Close()

	var records []entity.StepRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec entity.StepRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestSaveStep(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	rec := entity.StepRecord{
		Index:   0,
		Action:  &entity.Action{Kind: entity.ActionNavigate, URL: "https://example.com"},
		Before:  "aaaaaaaaaaaa",
		After:   "bbbbbbbbbbbb",
		Changed: true,
		Outcome: entity.OutcomeSuccess,
	}
	shot := &entity.Screenshot{Data: []byte("jpeg-bytes"), Format: "jpeg"}

	path, err := sink.SaveStep(testTask, rec, shot)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "buy-socks", "00.jpeg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	records := readRecords(t, dir)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Index)
	require.NotNil(t, records[0].Action)
	assert.Equal(t, entity.ActionNavigate, records[0].Action.Kind)
	assert.Equal(t, path, records[0].ScreenshotPath)
	assert.True(t, records[0].Changed)
}

func TestSaveStep_GaplessNumbering(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	for i := 0; i < 3; i++ {
		rec := entity.StepRecord{
			Index:   i,
			Action:  &entity.Action{Kind: entity.ActionDone},
			Outcome: entity.OutcomeSuccess,
		}
		_, err := sink.SaveStep(testTask, rec, &entity.Screenshot{Data: []byte{0xff, 0xd8}})
		require.NoError(t, err)
	}

	for _, name := range []string{"00.jpeg", "01.jpeg", "02.jpeg"} {
		assert.FileExists(t, filepath.Join(dir, "buy-socks", name))
	}
	assert.Len(t, readRecords(t, dir), 3)
}

func TestSaveStep_NilScreenshot(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	rec := entity.StepRecord{Index: 0, Outcome: entity.OutcomeError, Error: "planner returned prose"}

	path, err := sink.SaveStep(testTask, rec, nil)
	require.NoError(t, err)
	assert.Empty(t, path)

	assert.NoFileExists(t, filepath.Join(dir, "buy-socks", "00.jpeg"))

	records := readRecords(t, dir)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Action)
	assert.Empty(t, records[0].ScreenshotPath)
	assert.Equal(t, "planner returned prose", records[0].Error)
}

func TestSaveResult(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	res := entity.RunResult{
		RunID:  "run-123",
		Task:   "buy a pair of socks",
		Status: entity.RunCompleted,
		Steps:  make([]entity.StepRecord, 4),
	}
	require.NoError(t, sink.SaveResult(testTask, res))

	data, err := os.ReadFile(filepath.Join(dir, "buy-socks", resultFile))
	require.NoError(t, err)

	var summary struct {
		RunID  string `json:"run_id"`
		Task   string `json:"task"`
		Status string `json:"status"`
		Steps  int    `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "run-123", summary.RunID)
	assert.Equal(t, "buy a pair of socks", summary.Task)
	assert.Equal(t, "completed", summary.Status)
	assert.Equal(t, 4, summary.Steps)
}

func TestDefaultDir(t *testing.T) {
	sink := NewFileSink("")
	assert.Equal(t, "dataset", sink.dir)
}
