// Package models contains data types and constants for the Assistants API.
package models

import "time"

// Endpoints for the Assistants API
const (
	DefaultBaseURL = "https://api.openai.com/v1"

	PathThreads  = "/threads"
	PathMessages = "/threads/%s/messages"
	PathRuns     = "/threads/%s/runs"
	PathRun      = "/threads/%s/runs/%s"
)

// DefaultAssistantID selects the hosted intake assistant
const DefaultAssistantID = "asst_voLApCpD9WGXC4xbjTDytGI5"

// DefaultPollInterval is the fixed wait between run status checks
const DefaultPollInterval = time.Second

// Greeting seeds every new session
const Greeting = "Hi! I'm here to help gather information about your project. Could you please start by telling me your full name?"

// DefaultHeaders returns the headers sent with every Assistants API request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"OpenAI-Beta":  "assistants=v2",
		"User-Agent":   "intakechat",
	}
}
