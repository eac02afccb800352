package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
)

// SubmitContact uploads a contact ticket as multipart form data and returns
// the assigned ticket ID.
func (c *Client) SubmitContact(ctx context.Context, req ContactRequest) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"subject":  req.Subject,
		"message":  req.Message,
		"type":     req.Type,
		"priority": req.Priority,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return "", fmt.Errorf("failed to write form field: %w", err)
		}
	}

	for i, file := range req.Files {
		part, err := w.CreateFormFile(fmt.Sprintf("file%d", i), file.Filename)
		if err != nil {
			return "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return "", fmt.Errorf("failed to write attachment: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	body, err := c.do(ctx, "contact", http.MethodPost, "/contact", &buf, w.FormDataContentType())
	if err != nil {
		return "", err
	}

	var resp struct {
		TicketID string `json:"ticketId"`
	}
	if err := decodeResult(body, &resp); err != nil {
		return "", err
	}
	return resp.TicketID, nil
}
