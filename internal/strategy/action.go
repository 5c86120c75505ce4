// Package strategy encapsulates, per task type, what happens when an
// occurrence or event finishes. Strategies return actions as plain data;
// executing them (persisting new occurrences, completing or deactivating
// tasks) is the completion workflow's job. This keeps each behavior testable
// without storage.
package strategy

// ActionType is the closed set of outcomes a strategy can request.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionCreateNextOccurrence
	ActionCompleteTask
	ActionDeactivateTask
)

func (a ActionType) String() string {
	switch a {
	case ActionNone:
		return "no_action"
	case ActionCreateNextOccurrence:
		return "create_next_occurrence"
	case ActionCompleteTask:
		return "complete_task"
	case ActionDeactivateTask:
		return "deactivate_task"
	}
	return "unknown"
}

// Action is what the caller should do next. TaskID is set for every action
// so the interpreter never has to reach back into the input.
type Action struct {
	Type   ActionType
	TaskID uint
}

func noAction(taskID uint) Action {
	return Action{Type: ActionNone, TaskID: taskID}
}

func createNext(taskID uint) Action {
	return Action{Type: ActionCreateNextOccurrence, TaskID: taskID}
}

func completeTask(taskID uint) Action {
	return Action{Type: ActionCompleteTask, TaskID: taskID}
}

func deactivateTask(taskID uint) Action {
	return Action{Type: ActionDeactivateTask, TaskID: taskID}
}
