package client

// createTaskRequest is the JSON request body for creating a task.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// updateStatusRequest is the JSON request body for a status change.
type updateStatusRequest struct {
	Status string `json:"status"`
}
