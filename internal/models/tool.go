package models

import (
	"time"

	"github.com/invopop/jsonschema"
)

// PresentationHint tells the host which widget template renders a response.
type PresentationHint struct {
	TemplateID    string `json:"templateId"`
	InvokingLabel string `json:"invokingLabel"`
	InvokedLabel  string `json:"invokedLabel"`
}

// ToolResponse is the envelope every tool call returns.
type ToolResponse struct {
	SummaryText       string           `json:"summaryText"`
	StructuredPayload interface{}      `json:"structuredPayload,omitempty"`
	PresentationHint  PresentationHint `json:"presentationHint"`
	IsError           bool             `json:"isError,omitempty"`
}

// ToolDefinition is what the tool list exposes to the host.
type ToolDefinition struct {
	Name             string             `json:"name"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	InputSchema      *jsonschema.Schema `json:"inputSchema"`
	PresentationHint PresentationHint   `json:"presentationHint"`
}

// Invocation is the audit record written for every tool call.
type Invocation struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Tool          string    `gorm:"size:64;index" json:"tool"`
	Arguments     string    `gorm:"type:text" json:"arguments"`
	DurationMs    int64     `json:"duration_ms"`
	UsingMockData bool      `json:"using_mock_data"`
	IsError       bool      `json:"is_error"`
	ErrorMessage  string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

func (Invocation) TableName() string {
	return "tool_invocations"
}

// ToolStats aggregates the invocation log for one tool.
type ToolStats struct {
	Tool          string  `json:"tool"`
	Calls         int64   `json:"calls"`
	Errors        int64   `json:"errors"`
	MockDataCalls int64   `json:"mock_data_calls"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}
