package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/logger"

	"go.uber.org/zap"
)

// ErrInvalidCrew is returned when tasks cannot be matched to agents.
var ErrInvalidCrew = errors.New("invalid crew")

// Crew runs a fixed list of tasks, each handled by the agent whose role it names.
type Crew interface {
	// Kickoff runs tasks in order; every task sees the outputs of the tasks before it.
	Kickoff(ctx context.Context, agents []dto.AgentSpec, tasks []dto.TaskSpec) (*dto.CrewResult, error)
}

type crew struct {
	ai     repository.AIRepository
	logger *logger.Logger
}

// NewCrew creates a sequential crew backed by ai.
func NewCrew(ai repository.AIRepository, log *logger.Logger) Crew {
	return &crew{
		ai:     ai,
		logger: log,
	}
}

func (c *crew) Kickoff(ctx context.Context, agents []dto.AgentSpec, tasks []dto.TaskSpec) (*dto.CrewResult, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks", ErrInvalidCrew)
	}
	byRole := make(map[string]dto.AgentSpec, len(agents))
	for _, a := range agents {
		byRole[a.Role] = a
	}
	for _, t := range tasks {
		if _, ok := byRole[t.AgentRole]; !ok {
			return nil, fmt.Errorf("%w: task %q has no agent with role %q", ErrInvalidCrew, t.Name, t.AgentRole)
		}
	}

	result := &dto.CrewResult{Tasks: make([]dto.TaskOutput, 0, len(tasks))}
	for _, t := range tasks {
		agent := byRole[t.AgentRole]
		start := time.Now()

		output, err := c.ai.Complete(ctx, agent, repository.BuildTaskPrompt(t, result.Tasks))
		if err != nil {
			c.logger.ErrorContext(ctx, "Crew task failed",
				zap.String("task", t.Name),
				zap.String("agent", agent.Role),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to run task %s: %w", t.Name, err)
		}

		c.logger.InfoContext(ctx, "Crew task completed",
			zap.String("task", t.Name),
			zap.String("agent", agent.Role),
			zap.Int("output_length", len(output)),
			zap.Duration("duration", time.Since(start)),
		)
		result.Tasks = append(result.Tasks, dto.TaskOutput{
			Task:      t.Name,
			AgentRole: agent.Role,
			Output:    strings.TrimSpace(output),
		})
	}

	result.Final = result.Tasks[len(result.Tasks)-1].Output
	return result, nil
}
