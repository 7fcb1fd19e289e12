package stages

import (
	"context"
	"sync"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
)

// MockResearchTool is a recording ResearchTool for tests.
type MockResearchTool struct {
	mu     sync.Mutex
	Output *campaign.ResearchOutput
	Err    error
	Inputs []ResearchInput
}

func (m *MockResearchTool) Research(_ context.Context, input ResearchInput) (*campaign.ResearchOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs = append(m.Inputs, input)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Output, nil
}

// Calls returns the number of recorded invocations.
func (m *MockResearchTool) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}

// MockStrategyTool is a recording StrategyTool for tests.
type MockStrategyTool struct {
	mu     sync.Mutex
	Output *campaign.ContentStrategy
	Err    error
	Inputs []StrategyInput
}

func (m *MockStrategyTool) BuildStrategy(_ context.Context, input StrategyInput) (*campaign.ContentStrategy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs = append(m.Inputs, input)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Output, nil
}

// Calls returns the number of recorded invocations.
func (m *MockStrategyTool) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}

// MockCreativeTool is a recording CreativeTool for tests.
type MockCreativeTool struct {
	mu     sync.Mutex
	Output *campaign.CreativeOutput
	Err    error
	Inputs []CreativeInput
}

func (m *MockCreativeTool) GenerateCreative(_ context.Context, input CreativeInput) (*campaign.CreativeOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs = append(m.Inputs, input)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Output, nil
}

// Calls returns the number of recorded invocations.
func (m *MockCreativeTool) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}

// MockOrchestrateTool is a recording OrchestrateTool for tests.
type MockOrchestrateTool struct {
	mu     sync.Mutex
	Output *campaign.OrchestrationOutput
	Err    error
	Inputs []OrchestrateInput
}

func (m *MockOrchestrateTool) Publish(_ context.Context, input OrchestrateInput) (*campaign.OrchestrationOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs = append(m.Inputs, input)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Output, nil
}

// Calls returns the number of recorded invocations.
func (m *MockOrchestrateTool) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}
