package kling

// State is the decoded outcome of a status query.
type State int

const (
	StateInProgress State = iota
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "in_progress"
	}
}

// StatusResult is one observation of a remote task. URL is set only for
// StateSucceeded, Message only for StateFailed.
type StatusResult struct {
	TaskID  string
	Status  string
	State   State
	URL     string
	Message string
}

type createRequest struct {
	HumanImage  string `json:"human_image"`
	ModelName   string `json:"model_name"`
	ClothImage  string `json:"cloth_image,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type envelope struct {
	Code      int       `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Data      *taskData `json:"data"`
}

type taskData struct {
	TaskID        string      `json:"task_id"`
	TaskStatus    string      `json:"task_status"`
	TaskStatusMsg string      `json:"task_status_msg"`
	TaskResult    *taskResult `json:"task_result"`
}

type taskResult struct {
	Images []struct {
		Index int    `json:"index"`
		URL   string `json:"url"`
	} `json:"images"`
}
