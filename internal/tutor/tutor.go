// Package tutor runs the tutoring conversation of a scene. Replies come from
// a Backend: a fixed scripted rotation built from the scene's pedagogy, or a
// remote chat endpoint.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/poelab/internal/scene"
)

var (
	ErrEmptyMessage = errors.New("tutor: empty message")
	ErrNoReply      = errors.New("tutor: backend returned no reply")
)

// Apology is recorded when the backend fails.
const Apology = "Sorry, I had trouble responding. Please try again!"

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Backend produces the next assistant reply for a history that ends with
// the learner's message.
type Backend interface {
	Reply(ctx context.Context, history []Message) (string, error)
}

type Options struct {
	// ThinkTime delays every reply.
	ThinkTime time.Duration
	Logger    *slog.Logger
}

// Conversation is safe for concurrent use.
type Conversation struct {
	backend   Backend
	thinkTime time.Duration
	log       *slog.Logger

	mu       sync.Mutex
	messages []Message
	pending  bool
}

// NewConversation starts a conversation with a greeting derived from doc.
func NewConversation(doc *scene.Document, backend Backend, opts Options) *Conversation {
	c := &Conversation{
		backend:   backend,
		thinkTime: opts.ThinkTime,
		log:       opts.Logger,
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.messages = []Message{newMessage(Assistant, Greeting(doc))}
	return c
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Pending reports whether a reply is being produced.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Send records the learner's message and waits for the reply. A failing
// backend yields the Apology reply rather than an error; only a cancelled
// ctx or an empty message is returned as an error.
func (c *Conversation) Send(ctx context.Context, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	c.messages = append(c.messages, newMessage(User, content))
	history := make([]Message, len(c.messages))
	copy(history, c.messages)
	c.pending = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
	}()

	if c.thinkTime > 0 {
		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-time.After(c.thinkTime):
		}
	}

	text, err := c.backend.Reply(ctx, history)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrNoReply
	}
	if err != nil {
		if ctx.Err() != nil {
			return Message{}, ctx.Err()
		}
		c.log.Warn("tutor reply failed", "error", err)
		text = Apology
	}

	reply := newMessage(Assistant, text)
	c.mu.Lock()
	c.messages = append(c.messages, reply)
	c.mu.Unlock()
	return reply, nil
}

// Greeting introduces the scene's concept and prediction question.
func Greeting(doc *scene.Document) string {
	if doc == nil || doc.Pedagogy.Predict.Prompt == "" {
		return "Hi! I'm your physics tutor. Let's explore this simulation together! What do you observe?"
	}
	predict := doc.Pedagogy.Predict
	concept := doc.Education.Concept
	if concept == "" {
		concept = "this physics concept"
	}

	var b strings.Builder
	b.WriteString("Hi! I'm your physics tutor.\n\n")
	fmt.Fprintf(&b, "Today we're exploring %s.\n\n", concept)
	fmt.Fprintf(&b, "Prediction question:\n%s\n\n", predict.Prompt)
	if len(predict.Choices) > 0 {
		for i, ch := range predict.Choices {
			fmt.Fprintf(&b, "%c) %s\n", 'A'+i, ch.Label)
		}
		b.WriteString("\nMake your prediction, then try the simulation and tell me what you observe!")
	} else {
		b.WriteString("Think about it first, then try the simulation and share what you notice!")
	}
	return b.String()
}

func newMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
