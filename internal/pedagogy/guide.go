// Package pedagogy walks a learner through the predict, observe, explain and
// extend stages of a scene.
package pedagogy

import (
	"errors"
	"fmt"

	"github.com/san-kum/poelab/internal/scene"
)

var (
	ErrUnknownChoice = errors.New("pedagogy: unknown prediction choice")
	ErrNoPrediction  = errors.New("pedagogy: make a prediction first")
	ErrLastStage     = errors.New("pedagogy: no further stage")
)

type Stage string

const (
	None    Stage = ""
	Predict Stage = "predict"
	Observe Stage = "observe"
	Explain Stage = "explain"
	Extend  Stage = "extend"
)

func (s Stage) Title() string {
	switch s {
	case Predict:
		return "Step 1: Predict"
	case Observe:
		return "Step 2: Observe"
	case Explain:
		return "Step 3: Explain"
	case Extend:
		return "Step 4: Challenge"
	}
	return ""
}

// Feedback is the response to a prediction.
type Feedback struct {
	Choice  scene.Choice
	Correct bool
	Message string
}

type Guide struct {
	p          scene.Pedagogy
	active     Stage
	prediction int
	hints      int
	revealed   bool
}

func New(p scene.Pedagogy) *Guide {
	return &Guide{p: p, active: Predict, prediction: -1}
}

// Stages lists the available stages. Extend is present only with a challenge.
func (g *Guide) Stages() []Stage {
	stages := []Stage{Predict, Observe, Explain}
	if g.hasExtend() {
		stages = append(stages, Extend)
	}
	return stages
}

// Active is the expanded stage, or None when every stage is collapsed.
func (g *Guide) Active() Stage { return g.active }

// Open expands a stage. Opening the active stage collapses it.
func (g *Guide) Open(s Stage) bool {
	if !g.available(s) {
		return false
	}
	if g.active == s {
		g.active = None
	} else {
		g.active = s
	}
	return true
}

// Predict records the learner's choice by index.
func (g *Guide) Predict(index int) (Feedback, error) {
	choices := g.p.Predict.Choices
	if index < 0 || index >= len(choices) {
		return Feedback{}, ErrUnknownChoice
	}
	g.prediction = index
	c := choices[index]
	fb := Feedback{Choice: c, Correct: c.IsCorrect}
	switch {
	case c.IsCorrect:
		fb.Message = "Let's test this with the simulation!"
	case c.Misconception != "":
		fb.Message = fmt.Sprintf("Common thinking: %q", c.Misconception)
	}
	return fb, nil
}

// Prediction returns the recorded choice.
func (g *Guide) Prediction() (scene.Choice, bool) {
	if g.prediction < 0 {
		return scene.Choice{}, false
	}
	return g.p.Predict.Choices[g.prediction], true
}

// Advance moves to the next stage. Leaving predict needs a prediction when
// the scene offers choices.
func (g *Guide) Advance() (Stage, error) {
	switch g.active {
	case Predict, None:
		if len(g.p.Predict.Choices) > 0 && g.prediction < 0 {
			return g.active, ErrNoPrediction
		}
		g.active = Observe
	case Observe:
		g.active = Explain
	case Explain:
		if !g.hasExtend() {
			return g.active, ErrLastStage
		}
		g.active = Extend
	default:
		return g.active, ErrLastStage
	}
	return g.active, nil
}

// RevealHint reveals the next scaffolding question.
func (g *Guide) RevealHint() (string, bool) {
	qs := g.p.Explain.ScaffoldingQuestions
	if g.hints >= len(qs) {
		return "", false
	}
	g.hints++
	return qs[g.hints-1], true
}

// Hints returns the questions revealed so far.
func (g *Guide) Hints() []string {
	return g.p.Explain.ScaffoldingQuestions[:g.hints]
}

func (g *Guide) HintsLeft() int { return len(g.p.Explain.ScaffoldingQuestions) - g.hints }

// RevealExplanation returns the correct explanation and marks it seen.
func (g *Guide) RevealExplanation() string {
	g.revealed = true
	return g.p.Explain.CorrectExplanation
}

func (g *Guide) ExplanationRevealed() bool { return g.revealed }

func (g *Guide) Pedagogy() scene.Pedagogy { return g.p }

// Body returns the text of a stage as display lines.
func (g *Guide) Body(s Stage) []string {
	p := g.p
	var lines []string
	switch s {
	case Predict:
		lines = append(lines, p.Predict.Prompt)
		for i, c := range p.Predict.Choices {
			lines = append(lines, fmt.Sprintf("%c) %s", 'A'+i, c.Label))
		}
	case Observe:
		lines = append(lines, p.Observe.Instructions)
		for _, f := range p.Observe.FocusPoints {
			lines = append(lines, "- "+f)
		}
		if p.Observe.KeyMoment != "" {
			lines = append(lines, "Key moment: "+p.Observe.KeyMoment)
		}
	case Explain:
		lines = append(lines, p.Explain.Prompt)
		lines = append(lines, g.Hints()...)
		if g.revealed {
			lines = append(lines, p.Explain.CorrectExplanation)
		}
	case Extend:
		if p.Extend != nil {
			lines = append(lines, "Challenge: "+p.Extend.Challenge)
			if p.Extend.TransferQuestion != "" {
				lines = append(lines, "Transfer: "+p.Extend.TransferQuestion)
			}
		}
	}
	return lines
}

// PredictionMessage is what the learner tells the tutor about a choice.
func PredictionMessage(c scene.Choice) string {
	if c.IsCorrect {
		return fmt.Sprintf("I predicted: %q. I think this is correct because...", c.Label)
	}
	return fmt.Sprintf("I predicted: %q", c.Label)
}

func (g *Guide) hasExtend() bool { return g.p.Extend != nil && g.p.Extend.Challenge != "" }

func (g *Guide) available(s Stage) bool {
	switch s {
	case Predict, Observe, Explain:
		return true
	case Extend:
		return g.hasExtend()
	}
	return false
}
