package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"webpilot/internal/di"
	"webpilot/internal/domain/entity"
	"webpilot/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	fmt.Println("\nEnter the task for the agent:")
	reader := bufio.NewReader(os.Stdin)
	goal, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal("read input: ", err)
	}
	goal = strings.TrimSpace(goal)
	if goal == "" {
		log.Fatal("empty task")
	}

	task := entity.Task{
		Name: envService.GetWithDefault("TASK_NAME", goal),
		Goal: goal,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cfg := di.ConfigFromEnv(envService)
	cfg.TaskName = task.Name

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer container.Close()

	container.Logger.Info("task accepted", "task", task.Name, "goal", task.Goal)

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Printf("\n━━━ %s ━━━\n", task.Name)

	result, err := container.Runner.Run(ctx, task)
	if err != nil {
		container.Logger.Error("run failed", "error", err, "steps", len(result.Steps))
		red := color.New(color.FgRed)
		red.Printf("\n❌ Run failed after %d steps: %v\n", len(result.Steps), err)
		container.Close()
		os.Exit(1)
	}

	status := color.New(color.FgGreen)
	mark := "✓"
	if terminal := result.Status.Err(); terminal != nil {
		container.Logger.Warn("run ended without completing", "reason", terminal)
		status = color.New(color.FgYellow)
		mark = "⚠"
	}
	status.Printf("\n%s Run %s finished: %s after %d steps\n", mark, result.RunID, result.Status, len(result.Steps))

	dim := color.New(color.Faint)
	for _, step := range result.Steps {
		dim.Println("  " + step.Summary())
	}
	fmt.Printf("\nArtifacts: %s\n", filepath.Join(cfg.DatasetDir, task.Slug()))
}
