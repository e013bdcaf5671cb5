package viz

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/poelab/internal/controls"
	"github.com/san-kum/poelab/internal/metrics"
	"github.com/san-kum/poelab/internal/pedagogy"
	"github.com/san-kum/poelab/internal/runtime"
	"github.com/san-kum/poelab/internal/scene"
	"github.com/san-kum/poelab/internal/tutor"
	"github.com/san-kum/poelab/internal/validate"
)

const (
	width           = 64
	height          = 20
	historyCapacity = 300
	chatLines       = 6
	replyTimeout    = 2 * time.Minute
)

type TickMsg time.Time

type reloadMsg string

type watchClosedMsg struct{}

type replyMsg struct {
	reply tutor.Message
	err   error
}

type Options struct {
	Session *runtime.Session
	// Clock must be the clock the session was created with.
	Clock *runtime.ManualClock
	// Tutor is optional; without it the chat keys do nothing.
	Tutor *tutor.Conversation
	// FrameTicks is how many session ticks a frame advances. Fractions carry
	// over to the next frame.
	FrameTicks float64
	FPS        int
	// Changes delivers the paths of edited scenario files. Optional.
	Changes <-chan string
	Theme   string
	Logger  *slog.Logger
}

// trace collects per-tick telemetry from the session sink.
type trace struct {
	focus   string
	metrics metrics.Set
	speeds  []float64
}

func newTrace(doc *scene.Document) *trace {
	t := &trace{}
	if len(doc.Physics.Dynamics) > 0 {
		t.focus = doc.Physics.Dynamics[0].ID
	}
	t.metrics = metrics.Set{metrics.NewKineticEnergy(), metrics.NewPeakSpeed(), metrics.NewDistance(t.focus)}
	return t
}

func (t *trace) observe(snap runtime.Snapshot, at float64) {
	t.metrics.Observe(snap, at)
	if st, ok := snap[t.focus]; ok {
		t.speeds = append(t.speeds, st.Speed)
		if len(t.speeds) > historyCapacity {
			t.speeds = t.speeds[1:]
		}
	}
}

func (t *trace) reset() {
	t.metrics.Reset()
	t.speeds = t.speeds[:0]
}

// Model is the live view of one session: the scene, its controls, the
// lesson stages and the tutor chat.
type Model struct {
	session *runtime.Session
	clock   *runtime.ManualClock
	panel   *controls.Panel
	guide   *pedagogy.Guide
	chat    *tutor.Conversation
	changes <-chan string
	log     *slog.Logger

	frameTicks float64
	carry      float64
	interval   time.Duration
	canvas     *Canvas
	trace      *trace
	theme      Theme

	frame    int
	selected int
	chatting bool
	input    string
	status   string
	showHelp bool
}

// NewModel wires a view to a built session and installs its sink.
func NewModel(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	frameTicks := opts.FrameTicks
	if frameTicks <= 0 {
		frameTicks = 1
	}

	m := Model{
		session:    opts.Session,
		clock:      opts.Clock,
		chat:       opts.Tutor,
		changes:    opts.Changes,
		log:        log,
		frameTicks: frameTicks,
		interval:   time.Second / time.Duration(fps),
		canvas:     NewCanvas(width, height),
		theme:      GetTheme(opts.Theme),
	}
	m.bind(opts.Session.Document())
	return m
}

// bind rebuilds everything derived from the document.
func (m *Model) bind(doc *scene.Document) {
	m.panel = controls.New(doc.Controls, m.session, m.log)
	m.guide = pedagogy.New(doc.Pedagogy)
	m.trace = newTrace(doc)
	m.selected = 0

	tr, s := m.trace, m.session
	s.SetSink(func(snap runtime.Snapshot) { tr.observe(snap, s.Elapsed()) })
}

// Close tears the session down.
func (m Model) Close() { m.session.Teardown() }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitForChange())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return reloadMsg(path)
	}
}

// Update handles input, frame ticks, file changes and tutor replies.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.chatting {
			return m.chatKey(msg)
		}
		return m.key(msg)
	case TickMsg:
		m.advance()
		return m, m.tick()
	case reloadMsg:
		m.reload(string(msg))
		return m, m.waitForChange()
	case watchClosedMsg:
		m.changes = nil
	case replyMsg:
		if msg.err != nil {
			m.status = "tutor: " + msg.err.Error()
		}
	}
	return m, nil
}

// advance runs this frame's share of ticks.
func (m *Model) advance() {
	m.frame++
	m.carry += m.frameTicks
	n := int(m.carry)
	m.carry -= float64(n)
	m.clock.Advance(n)
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.session.SetPaused(!m.session.Paused())
	case "r":
		m.panel.Reset()
		m.trace.reset()
		m.status = "world reset"
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "left":
		m.nudge(-1)
	case "right":
		m.nudge(1)
	case "enter":
		m.activate()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		cmd := m.predict(int(msg.String()[0] - '1'))
		return m, cmd
	case "n":
		if stage, err := m.guide.Advance(); err != nil {
			m.status = err.Error()
		} else {
			m.status = stage.Title()
		}
	case "h":
		if hint, ok := m.guide.RevealHint(); ok {
			m.status = "hint: " + hint
		} else {
			m.status = "no more hints"
		}
	case "e":
		m.guide.RevealExplanation()
		m.status = "explanation revealed"
	case "c":
		if m.chat != nil {
			m.chatting = true
		}
	case "t":
		m.theme = m.theme.next()
		m.status = "theme: " + m.theme.Name
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) chatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.chatting = false
	case tea.KeyEnter:
		cmd := m.send(m.input)
		m.input = ""
		return m, cmd
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) cycle(dir int) {
	n := m.panel.Len()
	if n == 0 {
		return
	}
	m.selected = ((m.selected+dir)%n + n) % n
}

func (m *Model) current() (scene.Control, bool) {
	ctrls := m.panel.Controls()
	if m.selected >= len(ctrls) {
		return scene.Control{}, false
	}
	return ctrls[m.selected], true
}

func (m *Model) nudge(steps int) {
	if c, ok := m.current(); ok && m.panel.Nudge(c.ID, steps) {
		m.status = m.panel.Display(c.ID)
	}
}

func (m *Model) activate() {
	c, ok := m.current()
	if !ok {
		return
	}
	switch c.Type {
	case scene.Button:
		if m.panel.Press(c.ID) {
			m.status = c.Label
			if c.Action == scene.ActionReset {
				m.trace.reset()
			}
		}
	case scene.Toggle:
		m.panel.Toggle(c.ID)
		m.status = m.panel.Display(c.ID)
	}
}

// predict records a choice and tells the tutor about it.
func (m *Model) predict(index int) tea.Cmd {
	fb, err := m.guide.Predict(index)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.status = fb.Message
	if m.status == "" {
		m.status = "prediction: " + fb.Choice.Label
	}
	return m.send(pedagogy.PredictionMessage(fb.Choice))
}

func (m *Model) send(text string) tea.Cmd {
	if m.chat == nil || strings.TrimSpace(text) == "" || m.chat.Pending() {
		return nil
	}
	chat := m.chat
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		reply, err := chat.Send(ctx, text)
		return replyMsg{reply: reply, err: err}
	}
}

// reload loads an edited document. An invalid file leaves the running world
// untouched.
func (m *Model) reload(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		m.status = "reload failed: " + err.Error()
		m.log.Warn("reload failed", "path", path, "error", err)
		return
	}
	if report := validate.Validate(raw); !report.Valid {
		m.status = "reload rejected: " + report.Errors[0]
		m.log.Warn("reload rejected", "path", path, "errors", len(report.Errors))
		return
	}
	doc, err := scene.Parse(raw)
	if err != nil {
		m.status = "reload failed: " + err.Error()
		return
	}
	if err := m.session.Load(doc); err != nil {
		m.status = "reload failed: " + err.Error()
		return
	}
	m.bind(doc)
	m.status = "reloaded " + doc.ID
	m.log.Info("scenario reloaded", "path", path, "scene", doc.ID)
}

// draw renders every body onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	doc := m.session.Document()
	b := doc.Physics.World.ResolvedBounds()
	vp := m.canvas.Fit(b.Width, b.Height)

	bodies := m.session.GetAllBodies()
	for _, id := range m.session.IDs() {
		h := bodies[id]
		st, ok := h.State()
		if !ok {
			continue
		}
		shape, _ := h.Shape()
		m.canvas.DrawShape(vp, st.Position, st.Angle, shape, !h.Static())
	}
}

// View renders the scene on the left and the lesson panel on the right.
func (m Model) View() string {
	st := m.theme.styles()
	doc := m.session.Document()
	m.draw()

	var left strings.Builder
	left.WriteString(st.header.Render(strings.ToUpper(doc.Scenario.Title)) + "  " + m.statusBadge(st) + "\n")
	left.WriteString(st.scene.Render(m.canvas.String()))
	if len(m.trace.speeds) > 1 {
		chart := asciigraph.Plot(m.trace.speeds,
			asciigraph.Height(5), asciigraph.Width(width-10),
			asciigraph.Caption(fmt.Sprintf("speed of %s (px/step)", m.trace.focus)))
		left.WriteString("\n" + st.graph.Render(chart))
	}

	var right strings.Builder
	m.viewStats(&right, st)
	m.viewControls(&right, st)
	m.viewLesson(&right, st)
	m.viewChat(&right, st)
	if m.status != "" {
		right.WriteString("\n" + st.selected.Render(m.status) + "\n")
	}
	right.WriteString("\n" + KeyHint.Render(m.hints()))

	view := lipgloss.JoinHorizontal(lipgloss.Top, left.String(), st.panel.Render(right.String()))
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

func (m Model) statusBadge(st styles) string {
	switch {
	case m.session.State() != runtime.Running:
		return st.bad.Render(strings.ToUpper(m.session.State().String()))
	case m.session.Paused():
		return st.paused.Render("PAUSED")
	default:
		return st.running.Render(AnimatedSpinner(m.frame) + " RUNNING")
	}
}

func (m Model) viewStats(b *strings.Builder, st styles) {
	b.WriteString(st.label.Render("Time") + st.value.Render(fmt.Sprintf("%.2fs", m.session.Elapsed())) + "\n")
	b.WriteString(st.label.Render("Pushes") + st.value.Render(fmt.Sprintf("%d", m.panel.Pushes())) + "\n")

	snap := m.session.Snapshot()
	for _, id := range snap.IDs() {
		s := snap[id]
		line := fmt.Sprintf("v=%6.2f  μ=%.2f", s.Speed, s.EffectiveFriction)
		b.WriteString(st.label.Render(id) + st.value.Render(line) + "\n")
	}

	values := m.trace.metrics.Values()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(st.label.Render(name) + st.muted.Render(fmt.Sprintf("%.3f", values[name])) + "\n")
	}
}

func (m Model) viewControls(b *strings.Builder, st styles) {
	b.WriteString(st.section.Render("CONTROLS") + "\n")
	ctrls := m.panel.Controls()
	if len(ctrls) == 0 {
		b.WriteString(st.muted.Render("  (none)") + "\n")
		return
	}
	for i, c := range ctrls {
		line := m.panel.Display(c.ID)
		if c.Type == scene.Slider && c.Range != nil && c.Range.Max > c.Range.Min {
			v, _ := m.panel.Value(c.ID)
			line = fmt.Sprintf("%-28s %s", line, ProgressBar((v-c.Range.Min)/(c.Range.Max-c.Range.Min), 12))
		}
		if i == m.selected {
			b.WriteString(st.selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
}

func (m Model) viewLesson(b *strings.Builder, st styles) {
	active := m.guide.Active()
	for _, stage := range m.guide.Stages() {
		marker := "▸ "
		if stage == active {
			marker = "▾ "
		}
		b.WriteString(st.section.Render(marker+stage.Title()) + "\n")
		if stage != active {
			continue
		}
		for _, line := range m.guide.Body(stage) {
			for _, l := range wrap(line, 48) {
				b.WriteString(st.value.Render(l) + "\n")
			}
		}
		if stage == pedagogy.Predict {
			if c, ok := m.guide.Prediction(); ok {
				style := st.bad
				if c.IsCorrect {
					style = st.good
				}
				b.WriteString(style.Render("you predicted: "+c.Label) + "\n")
			}
		}
		if stage == pedagogy.Explain && m.guide.HintsLeft() > 0 {
			b.WriteString(st.muted.Render(fmt.Sprintf("%d hint(s) left", m.guide.HintsLeft())) + "\n")
		}
	}
}

func (m Model) viewChat(b *strings.Builder, st styles) {
	if m.chat == nil {
		return
	}
	b.WriteString(st.section.Render("TUTOR") + "\n")
	msgs := m.chat.Messages()
	if len(msgs) > chatLines {
		msgs = msgs[len(msgs)-chatLines:]
	}
	for _, msg := range msgs {
		style, who := st.value, "tutor: "
		if msg.Role == tutor.User {
			style, who = st.muted, "you: "
		}
		for _, l := range wrap(who+msg.Content, 48) {
			b.WriteString(style.Render(l) + "\n")
		}
	}
	if m.chat.Pending() {
		b.WriteString(st.muted.Render(AnimatedSpinner(m.frame)+" thinking...") + "\n")
	}
	if m.chatting {
		b.WriteString(st.selected.Render("> "+m.input+"_") + "\n")
	}
}

func (m Model) hints() string {
	if m.chatting {
		return "enter:send  esc:close chat"
	}
	return "SP:pause R:reset TAB:control ←→:adjust ENTER:press\n1-9:predict N:next H:hint E:explain C:chat T:theme ?:help Q:quit"
}

const helpText = `
╔════════════════════════════════════════╗
║           KEYBOARD SHORTCUTS           ║
╠════════════════════════════════════════╣
║  Space      - Pause/Resume             ║
║  R          - Reset the world          ║
║  Tab/S-Tab  - Select control           ║
║  Left/Right - Adjust slider/dropdown   ║
║  Enter      - Press button/flip toggle ║
║  1-9        - Make a prediction        ║
║  N          - Next lesson stage        ║
║  H          - Reveal a hint            ║
║  E          - Reveal the explanation   ║
║  C          - Chat with the tutor      ║
║  T          - Cycle themes             ║
║  Q          - Quit                     ║
╚════════════════════════════════════════╝
`

// Run shows m until the user quits, then tears the session down.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	m.Close()
	return err
}
