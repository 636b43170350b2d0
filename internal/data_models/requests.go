package dto

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateDatasetRequest struct {
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
}

type BulkTaskItem struct {
	TextContent string `json:"text_content"`
}

type BulkCreateTasksRequest struct {
	Tasks []BulkTaskItem `json:"tasks"`
}

type SubmitTaskRequest struct {
	Annotation       map[string]interface{} `json:"annotation"`
	TimeSpentSeconds int                    `json:"time_spent_seconds"`
}

type RejectTaskRequest struct {
	Comment string `json:"comment"`
}
