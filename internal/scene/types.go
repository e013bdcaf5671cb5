package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Document is one interactive lesson: a scene, the controls bound to it and
// the pedagogical script around it. It is immutable once loaded.
type Document struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	GeneratedBy string    `json:"generatedBy,omitempty"`
	Education   Education `json:"education"`
	Scenario    Scenario  `json:"scenario"`
	Physics     Physics   `json:"physics"`
	Controls    []Control `json:"controls,omitempty"`
	Pedagogy    Pedagogy  `json:"pedagogy"`
}

type Education struct {
	Concept              string `json:"concept"`
	Misconception        string `json:"misconception"`
	CorrectUnderstanding string `json:"correctUnderstanding"`
	FCIItem              string `json:"fciItem,omitempty"`
}

type Scenario struct {
	Title             string `json:"title"`
	Narrative         string `json:"narrative,omitempty"`
	CognitiveConflict string `json:"cognitiveConflict"`
}

type Physics struct {
	World    World      `json:"world"`
	Statics  []BodySpec `json:"statics,omitempty"`
	Dynamics []BodySpec `json:"dynamics,omitempty"`
}

type World struct {
	Bounds       *Bounds  `json:"bounds,omitempty"`
	Gravity      *Vec2    `json:"gravity,omitempty"`
	GravityScale *float64 `json:"gravityScale,omitempty"`
}

type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShapeKind names the geometry of a body.
type ShapeKind string

const (
	Rectangle ShapeKind = "rectangle"
	Circle    ShapeKind = "circle"
	Polygon   ShapeKind = "polygon"
)

// BodySpec declares one rigid body. ID is the key every other subsystem uses.
type BodySpec struct {
	ID              string      `json:"id"`
	Label           string      `json:"label,omitempty"`
	Type            ShapeKind   `json:"type,omitempty"`
	Position        Vec2        `json:"position"`
	Dimensions      *Dimensions `json:"dimensions,omitempty"`
	Radius          *float64    `json:"radius,omitempty"`
	Sides           *int        `json:"sides,omitempty"`
	Vertices        []Vec2      `json:"vertices,omitempty"`
	Physics         BodyPhysics `json:"physics,omitempty"`
	Appearance      *Appearance `json:"appearance,omitempty"`
	InitialVelocity *Vec2       `json:"initialVelocity,omitempty"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BodyPhysics holds the optional coefficients of a body. A nil field means
// the key was absent from the document and the builder default applies.
type BodyPhysics struct {
	Friction       *float64 `json:"friction,omitempty"`
	Restitution    *float64 `json:"restitution,omitempty"`
	FrictionAir    *float64 `json:"frictionAir,omitempty"`
	FrictionStatic *float64 `json:"frictionStatic,omitempty"`
	Mass           *float64 `json:"mass,omitempty"`
	Inertia        *Inertia `json:"inertia,omitempty"`
}

type Appearance struct {
	FillColor   string   `json:"fillColor,omitempty"`
	StrokeColor string   `json:"strokeColor,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
}

// Inertia is a moment of inertia that may be the sentinel "Infinity",
// which locks the body's rotation.
type Inertia struct {
	Value float64
}

// Infinite reports whether the inertia locks rotation.
func (i Inertia) Infinite() bool { return math.IsInf(i.Value, 1) }

func (i *Inertia) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "infinity", "infinite", "inf":
			i.Value = math.Inf(1)
			return nil
		}
		return fmt.Errorf("scene: unknown inertia sentinel %q", s)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("scene: inertia must be a number or \"Infinity\": %w", err)
	}
	i.Value = v
	return nil
}

func (i Inertia) MarshalJSON() ([]byte, error) {
	if i.Infinite() {
		return json.Marshal("Infinity")
	}
	return json.Marshal(i.Value)
}

// ControlKind is the widget type of a control.
type ControlKind string

const (
	Slider   ControlKind = "slider"
	Button   ControlKind = "button"
	Toggle   ControlKind = "toggle"
	Dropdown ControlKind = "dropdown"
)

// Action names a button effect.
type Action string

const (
	ActionApplyForce      Action = "applyForce"
	ActionReset           Action = "reset"
	ActionLaunchCollision Action = "launchCollision"
)

// Control binds a widget to a body property or to a runtime action.
type Control struct {
	ID             string        `json:"id"`
	Type           ControlKind   `json:"type"`
	Label          string        `json:"label"`
	Target         string        `json:"target,omitempty"`
	Property       string        `json:"property,omitempty"`
	ToggleProperty string        `json:"toggleProperty,omitempty"`
	Action         Action        `json:"action,omitempty"`
	ActionParams   *ActionParams `json:"actionParams,omitempty"`
	Range          *Range        `json:"range,omitempty"`
	Unit           string        `json:"unit,omitempty"`
	DefaultValue   *float64      `json:"defaultValue,omitempty"`
	Options        []Option      `json:"options,omitempty"`
}

type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step,omitempty"`
}

type Option struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type ActionParams struct {
	Force   *Vec2   `json:"force,omitempty"`
	ObjectA *Launch `json:"objectA,omitempty"`
	ObjectB *Launch `json:"objectB,omitempty"`
}

type Launch struct {
	ID       string `json:"id"`
	Velocity Vec2   `json:"velocity"`
}

type Pedagogy struct {
	Predict Predict  `json:"predict"`
	Observe Observe  `json:"observe"`
	Explain Explain  `json:"explain"`
	Extend  *Extend  `json:"extend,omitempty"`
	AITutor *AITutor `json:"aiTutor,omitempty"`
}

type Predict struct {
	Prompt  string   `json:"prompt"`
	Choices []Choice `json:"choices,omitempty"`
}

type Choice struct {
	Label         string `json:"label"`
	IsCorrect     bool   `json:"isCorrect,omitempty"`
	Misconception string `json:"misconception,omitempty"`
}

type Observe struct {
	Instructions string   `json:"instructions"`
	FocusPoints  []string `json:"focusPoints,omitempty"`
	KeyMoment    string   `json:"keyMoment,omitempty"`
}

type Explain struct {
	Prompt               string   `json:"prompt"`
	ScaffoldingQuestions []string `json:"scaffoldingQuestions,omitempty"`
	CorrectExplanation   string   `json:"correctExplanation"`
}

type Extend struct {
	Challenge        string `json:"challenge"`
	TransferQuestion string `json:"transferQuestion,omitempty"`
}

type AITutor struct {
	SystemPrompt       string              `json:"systemPrompt"`
	SuggestedResponses *SuggestedResponses `json:"suggestedResponses,omitempty"`
}

type SuggestedResponses struct {
	IfIncorrectPrediction string `json:"ifIncorrectPrediction,omitempty"`
	IfStuck               string `json:"ifStuck,omitempty"`
}

// Bodies returns statics followed by dynamics, in document order.
func (p Physics) Bodies() []BodySpec {
	all := make([]BodySpec, 0, len(p.Statics)+len(p.Dynamics))
	all = append(all, p.Statics...)
	return append(all, p.Dynamics...)
}
