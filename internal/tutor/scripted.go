package tutor

import (
	"context"
	"sync"

	"github.com/san-kum/poelab/internal/scene"
)

// Scripted replies with a fixed list of responses in order, wrapping
// around when it runs out.
type Scripted struct {
	mu        sync.Mutex
	responses []string
	next      int
}

func NewScripted(doc *scene.Document) *Scripted {
	return &Scripted{responses: Script(doc)}
}

func (s *Scripted) Reply(_ context.Context, _ []Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.responses[s.next%len(s.responses)]
	s.next++
	return r, nil
}

// Script builds the response rotation following the predict, observe,
// explain flow of the scene, ending with three general replies.
func Script(doc *scene.Document) []string {
	var p scene.Pedagogy
	if doc != nil {
		p = doc.Pedagogy
	}
	var suggested scene.SuggestedResponses
	if p.AITutor != nil && p.AITutor.SuggestedResponses != nil {
		suggested = *p.AITutor.SuggestedResponses
	}
	scaffold := func(i int) string {
		if i < len(p.Explain.ScaffoldingQuestions) {
			return p.Explain.ScaffoldingQuestions[i]
		}
		return ""
	}

	out := []string{
		or(suggested.IfIncorrectPrediction,
			"Interesting prediction! Let's test it with the simulation. Try it out and tell me what you see."),
		wrap("Great observation! Pay special attention to this: ", p.Observe.KeyMoment, "\n\nWhat did you notice?",
			"Good thinking! What exactly did you observe? Describe the motion you saw."),
		wrap("You're making great progress! Let me ask you this:\n\n", scaffold(0), "",
			"Interesting! Can you explain WHY you think that happened? What forces were at work?"),
		wrap("Good reasoning! Now think about this:\n\n", scaffold(1), "",
			"You're getting close! Think about what happens when you change the variables. What stays the same?"),
		or(suggested.IfStuck,
			"Here's a hint: change one variable at a time and observe the effect. What pattern do you see?"),
		wrap("Almost there! One more thing to consider:\n\n", scaffold(2), "",
			"You're making excellent connections! How would you summarize what you've learned?"),
		wrap("Excellent discovery work!\n\nHere's the key insight:\n\n", p.Explain.CorrectExplanation,
			"\n\nYou worked this out from your own observations. That's real physics thinking!",
			"Great work exploring this concept! You've made some wonderful discoveries."),
	}
	if p.Extend != nil && p.Extend.Challenge != "" {
		out = append(out, "Now that you understand the concept, here's a challenge:\n\n"+p.Extend.Challenge+"\n\nGive it a try!")
	}
	if p.Extend != nil && p.Extend.TransferQuestion != "" {
		out = append(out, "Here's a transfer question to test your understanding:\n\n"+
			p.Extend.TransferQuestion+"\n\nHow does what you learned apply here?")
	}
	return append(out,
		"That's a great question! Try experimenting with the simulation to find out. Change one variable and observe the effect.",
		"Excellent thinking! You're really developing your physics intuition. What else would you like to explore?",
		"I love your curiosity! Try different settings and see what happens. Science is all about experimentation!",
	)
}

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func wrap(prefix, s, suffix, fallback string) string {
	if s == "" {
		return fallback
	}
	return prefix + s + suffix
}
