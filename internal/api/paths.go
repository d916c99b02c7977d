// Package api provides the Assistants API client implementation.
package api

// GJSON paths for extracting values from Assistants API responses.
const (
	PathID          = "id"
	PathStatus      = "status"
	PathCreatedAt   = "created_at"
	PathThreadID    = "thread_id"
	PathAssistantID = "assistant_id"
	PathRunID       = "run_id"
	PathRole        = "role"
	PathLastError   = "last_error.message"

	// List responses wrap items in "data", most recent first by default
	PathData = "data"

	// Text parts of a message; other part types (image_file, ...) are skipped
	PathTextValues = `content.#(type=="text")#.text.value`

	// Error envelope returned with non-2xx statuses
	PathErrorMessage = "error.message"
)
