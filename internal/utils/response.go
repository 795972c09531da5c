package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error       string  `json:"error"`
	RawResponse *string `json:"ai_raw_response,omitempty"`
	Details     string  `json:"details,omitempty"`
}

// MessageResponse is the body returned by operations that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// SendJSON encodes data with the given status code.
func SendJSON(c *fiber.Ctx, status int, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(data)
}

// SendRawJSON writes an already encoded JSON document.
func SendRawJSON(c *fiber.Ctx, status int, body []byte) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	c.Status(status).Type("json")
	return c.Send(body)
}

// SendMessage sends a 200 response carrying only a message.
func SendMessage(c *fiber.Ctx, message string) error {
	return SendJSON(c, fiber.StatusOK, MessageResponse{Message: message})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// SendUpstreamError reports a reply from the AI provider that could not be used,
// echoing the raw text for diagnosis.
func SendUpstreamError(c *fiber.Ctx, status int, message, raw, details string) error {
	return c.Status(status).JSON(ErrorResponse{
		Error:       message,
		RawResponse: &raw,
		Details:     details,
	})
}
