package repository

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/logger"

	"github.com/nlpodyssey/openai-agents-go/agents"
)

type openAIAgentsRepository struct {
	cfg    *config.Config
	logger *logger.Logger
	// model overrides the named OpenAI model when set.
	model agents.Model
}

// NewOpenAIAgentsRepository creates an AIRepository that runs each agent turn through the agents runner.
// A nil model uses cfg.OpenAI.Model with the default OpenAI provider.
func NewOpenAIAgentsRepository(cfg *config.Config, log *logger.Logger, model agents.Model) AIRepository {
	if model == nil && cfg.OpenAI.APIKey != "" {
		agents.SetDefaultOpenaiKey(cfg.OpenAI.APIKey, false)
	}
	return &openAIAgentsRepository{
		cfg:    cfg,
		logger: log,
		model:  model,
	}
}

// Complete runs a single agent over prompt and returns its final output.
func (r *openAIAgentsRepository) Complete(ctx context.Context, agent dto.AgentSpec, prompt string) (string, error) {
	a := agents.New(agent.Role).WithInstructions(BuildAgentInstruction(agent))
	if r.model != nil {
		a = a.WithModelInstance(r.model)
	} else {
		a = a.WithModel(r.cfg.OpenAI.Model)
	}

	runner := agents.Runner{
		Config: agents.RunConfig{
			TracingDisabled: true,
			MaxTurns:        r.cfg.OpenAI.MaxTurns,
			WorkflowName:    "stock-advisor",
		},
	}

	result, err := runner.Run(ctx, a, prompt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to run agent", logger.ErrorField(err), logger.StringField("agent", agent.Role))
		return "", fmt.Errorf("failed to run agent %s: %w", agent.Role, err)
	}

	output, ok := result.FinalOutput.(string)
	if !ok {
		output = fmt.Sprint(result.FinalOutput)
	}
	output = strings.TrimSpace(output)
	if output == "" {
		return "", fmt.Errorf("agent %s returned no output", agent.Role)
	}
	return output, nil
}
