package agent

import "github.com/cytzrs/share-sub001/internal/models"

// allowedTransitions lists the legal next states for each agent state.
// Error is reachable from anywhere; stopped is terminal except for a
// restart back to idle.
var allowedTransitions = map[models.AgentState][]models.AgentState{
	models.AgentStateIdle:    {models.AgentStateRunning, models.AgentStatePaused, models.AgentStateStopped, models.AgentStateError},
	models.AgentStateRunning: {models.AgentStateIdle, models.AgentStatePaused, models.AgentStateStopped, models.AgentStateError},
	models.AgentStatePaused:  {models.AgentStateIdle, models.AgentStateStopped, models.AgentStateError},
	models.AgentStateError:   {models.AgentStateIdle, models.AgentStateStopped},
	models.AgentStateStopped: {models.AgentStateIdle},
}

// CanTransition reports whether the state change is legal.
func CanTransition(from, to models.AgentState) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
