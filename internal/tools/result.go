package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"jiramcp/internal/apierr"
	"jiramcp/pkg/logging"
)

// toolError is the structured error payload every failed tool call
// returns. Errors never propagate past the handler boundary in any other
// shape.
type toolError struct {
	Kind    apierr.Kind `json:"error_kind"`
	Message string      `json:"message"`
}

// errResult defers error serialization so helpers can hand a failure
// back through a single return value.
type errResult struct {
	err error
}

func (r *errResult) result() *mcp.CallToolResult {
	return errorResult(r.err)
}

// errorResult converts any error into the structured error payload.
func errorResult(err error) *mcp.CallToolResult {
	payload := toolError{
		Kind:    apierr.KindOf(err),
		Message: err.Error(),
	}
	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		// Can't happen for two string fields, but never panic a handler.
		return mcp.NewToolResultError(fmt.Sprintf(`{"error_kind":"%s","message":"serialization failure"}`, apierr.KindUnknown))
	}
	logging.Debug("Tools", "tool call failed: kind=%s", payload.Kind)
	return mcp.NewToolResultError(string(data))
}

// validationError shapes an input-constraint failure; the request never
// reached the network.
func validationError(format string, args ...interface{}) *mcp.CallToolResult {
	return errorResult(apierr.New(apierr.KindValidation, format, args...))
}

// confirmationRequired gates destructive tools.
func confirmationRequired(action string) *mcp.CallToolResult {
	return errorResult(apierr.New(apierr.KindConfirmationRequired,
		"%s is destructive; pass confirm=true to proceed", action))
}

// jsonResult serializes a success payload as indented JSON text.
func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(apierr.Wrap(err, apierr.KindUnknown, "failed to serialize result"))
	}
	return mcp.NewToolResultText(string(data))
}
