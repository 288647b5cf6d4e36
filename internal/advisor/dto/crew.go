package dto

// AgentSpec describes one role taking part in a generation run.
type AgentSpec struct {
	Role            string `json:"role"`
	Goal            string `json:"goal"`
	Backstory       string `json:"backstory"`
	AllowDelegation bool   `json:"allow_delegation"`
}

// TaskSpec is a unit of work assigned to the agent whose Role matches AgentRole.
type TaskSpec struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	ExpectedOutput string `json:"expected_output"`
	AgentRole      string `json:"agent_role"`
}

// TaskOutput is the text one task produced.
type TaskOutput struct {
	Task      string `json:"task"`
	AgentRole string `json:"agent_role"`
	Output    string `json:"output"`
}

// CrewResult is the outcome of running all tasks in order.
type CrewResult struct {
	Tasks []TaskOutput `json:"tasks"`
	// Final is the output of the last task.
	Final string `json:"final"`
}
