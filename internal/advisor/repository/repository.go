package repository

import (
	"context"

	"golang-stock-advisor/internal/advisor/dto"
)

// AIRepository produces text for one agent turn.
type AIRepository interface {
	// Complete answers prompt in the voice of agent: its role, goal and backstory become the system instruction.
	Complete(ctx context.Context, agent dto.AgentSpec, prompt string) (string, error)
}
