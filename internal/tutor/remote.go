package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/san-kum/poelab/internal/scene"
)

type chatContext struct {
	Concept       string `json:"concept,omitempty"`
	Misconception string `json:"misconception,omitempty"`
}

type chatRequest struct {
	Messages     []Message   `json:"messages"`
	SystemPrompt string      `json:"systemPrompt,omitempty"`
	Context      chatContext `json:"context"`
}

type chatResponse struct {
	Message string `json:"message"`
}

// Remote posts the conversation to a chat endpoint that answers with
// {"message": "..."}.
type Remote struct {
	endpoint string
	client   *http.Client
	prompt   string
	context  chatContext
}

func NewRemote(endpoint string, timeout time.Duration, doc *scene.Document) *Remote {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := &Remote{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
	if doc != nil {
		if doc.Pedagogy.AITutor != nil {
			r.prompt = doc.Pedagogy.AITutor.SystemPrompt
		}
		r.context = chatContext{
			Concept:       doc.Education.Concept,
			Misconception: doc.Education.Misconception,
		}
	}
	return r
}

func (r *Remote) Reply(ctx context.Context, history []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Messages:     history,
		SystemPrompt: r.prompt,
		Context:      r.context,
	})
	if err != nil {
		return "", fmt.Errorf("tutor: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("tutor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tutor: post %s: %w", r.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("tutor: post %s: %s", r.endpoint, resp.Status)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("tutor: decode reply: %w", err)
	}
	return out.Message, nil
}
