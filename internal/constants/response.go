package constants

// Standard response field keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldCode    = "code"
	ResponseFieldDetails = "details"
	ResponseFieldUser    = "user"
)

// BuildErrorResponse builds the error body returned at the boundary. details
// is only ever populated outside production, production responses carry the
// message and stable code alone.
func BuildErrorResponse(message, code string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
		ResponseFieldCode:    code,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
