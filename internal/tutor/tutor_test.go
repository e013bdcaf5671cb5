package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/poelab/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessonDoc() *scene.Document {
	return &scene.Document{
		ID:        "friction",
		Education: scene.Education{Concept: "Newton's first law", Misconception: "motion needs a force"},
		Pedagogy: scene.Pedagogy{
			Predict: scene.Predict{
				Prompt:  "What happens when you stop pushing?",
				Choices: []scene.Choice{{Label: "It stops"}, {Label: "It slides", IsCorrect: true}},
			},
			Observe: scene.Observe{KeyMoment: "friction at zero"},
			Explain: scene.Explain{
				ScaffoldingQuestions: []string{"q1", "q2", "q3"},
				CorrectExplanation:   "Nothing slows it down.",
			},
			Extend: &scene.Extend{Challenge: "Stop it in 100 px", TransferQuestion: "Hockey pucks?"},
			AITutor: &scene.AITutor{
				SystemPrompt:       "You are a Socratic tutor.",
				SuggestedResponses: &scene.SuggestedResponses{IfIncorrectPrediction: "Let's check!", IfStuck: "Try zero friction."},
			},
		},
	}
}

type failing struct{}

func (failing) Reply(context.Context, []Message) (string, error) { return "", errors.New("down") }

func TestGreeting(t *testing.T) {
	g := Greeting(lessonDoc())
	assert.Contains(t, g, "Newton's first law")
	assert.Contains(t, g, "What happens when you stop pushing?")
	assert.Contains(t, g, "A) It stops\nB) It slides\n")

	assert.Contains(t, Greeting(nil), "Let's explore this simulation together")
}

func TestScript(t *testing.T) {
	s := Script(lessonDoc())
	require.Len(t, s, 12)
	assert.Equal(t, "Let's check!", s[0])
	assert.Contains(t, s[1], "friction at zero")
	assert.Contains(t, s[2], "q1")
	assert.Contains(t, s[3], "q2")
	assert.Equal(t, "Try zero friction.", s[4])
	assert.Contains(t, s[5], "q3")
	assert.Contains(t, s[6], "Nothing slows it down.")
	assert.Contains(t, s[7], "Stop it in 100 px")
	assert.Contains(t, s[8], "Hockey pucks?")

	bare := Script(&scene.Document{})
	assert.Len(t, bare, 10)
	assert.Contains(t, bare[0], "Interesting prediction!")
}

func TestConversation_ScriptedRotation(t *testing.T) {
	doc := lessonDoc()
	c := NewConversation(doc, NewScripted(doc), Options{})
	script := Script(doc)

	for i := 0; i < len(script)+2; i++ {
		reply, err := c.Send(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, script[i%len(script)], reply.Content)
		assert.Equal(t, Assistant, reply.Role)
		assert.NotEmpty(t, reply.ID)
	}

	msgs := c.Messages()
	assert.Len(t, msgs, 1+2*(len(script)+2))
	assert.Equal(t, User, msgs[1].Role)
	assert.NotEqual(t, msgs[1].ID, msgs[2].ID)
}

func TestConversation_EmptyMessage(t *testing.T) {
	c := NewConversation(lessonDoc(), NewScripted(lessonDoc()), Options{})
	_, err := c.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, c.Messages(), 1)
}

func TestConversation_BackendFailure(t *testing.T) {
	c := NewConversation(lessonDoc(), failing{}, Options{})
	reply, err := c.Send(context.Background(), "why?")
	require.NoError(t, err)
	assert.Equal(t, Apology, reply.Content)
	assert.False(t, c.Pending())
}

func TestConversation_ThinkTimeHonoursContext(t *testing.T) {
	c := NewConversation(lessonDoc(), NewScripted(lessonDoc()), Options{ThinkTime: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Send(ctx, "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, c.Messages(), 2)
}

func TestRemote(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "What force is acting?"}`))
	}))
	defer srv.Close()

	doc := lessonDoc()
	c := NewConversation(doc, NewRemote(srv.URL, time.Second, doc), Options{})
	reply, err := c.Send(context.Background(), "It stopped")
	require.NoError(t, err)

	assert.Equal(t, "What force is acting?", reply.Content)
	assert.Equal(t, "You are a Socratic tutor.", got.SystemPrompt)
	assert.Equal(t, "Newton's first law", got.Context.Concept)
	assert.Equal(t, "motion needs a force", got.Context.Misconception)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "It stopped", got.Messages[1].Content)
}

func TestRemote_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, _ *http.Request) { http.Error(w, "boom", http.StatusBadGateway) }},
		{"garbage", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("<html>")) }},
		{"empty", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"message": ""}`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewConversation(nil, NewRemote(srv.URL, time.Second, nil), Options{})
			reply, err := c.Send(context.Background(), "hi")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(reply.Content, "Sorry"))
		})
	}
}
