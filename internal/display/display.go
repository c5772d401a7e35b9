// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent status bar and an input prompt at the
// bottom of the terminal. All application output is printed above the
// rendered area via Program.Println / Printf, so concurrent writes never
// garble the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/hammamikhairi/chefchallenge/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	clockLowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	chefStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

const (
	promptText = "chef> "
	appTitle   = "Chef Challenge"
	// The clock turns red at or below this many seconds.
	lowTimeSeconds = 10
)

// StatusSource is what the status bar renders. game.Session implements it.
type StatusSource interface {
	Snapshot() domain.Snapshot
	Subscribe() <-chan struct{}
}

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely call
// the print helpers and read from [UI.InputChan] once [UI.WaitReady]
// returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	source  StatusSource
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(source StatusSource) *UI {
	return &UI{
		source:  source,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Falls back to fmt.Println before
// the program starts or after it exits.
func (u *UI) Println(a ...any) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
func (u *UI) Printf(format string, a ...any) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintChef prints a line the chef says.
func (u *UI) PrintChef(text string) {
	u.Println(chefStyle.Render("  " + text))
}

// PrintHeader prints a section header such as "Recipes".
func (u *UI) PrintHeader(text string) {
	u.Println(headerStyle.Render("  " + text))
}

// PrintLine prints ordinary output.
func (u *UI) PrintLine(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintVoice echoes a heard utterance.
func (u *UI) PrintVoice(text string) {
	u.Println(secondaryStyle.Render("[voice] ") + primaryStyle.Render(text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("chef") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// A plain-text prompt keeps the textinput width math correct.
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	m := model{
		source:  u.source,
		changes: u.source.Subscribe(),
		snap:    u.source.Snapshot(),
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn:  u.PrintUserInput,
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	source  StatusSource
	changes <-chan struct{}
	snap    domain.Snapshot
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	width   int
}

type (
	tickMsg   time.Time
	changeMsg struct{}
)

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		waitForChange(m.changes),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange turns one session notification into a changeMsg. A
// closed channel ends the chain.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changeMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) == "" {
				return m, nil
			}
			m.inputCh <- v
			// Echo outside Update so Println does not deadlock on msgs.
			echoFn := m.echoFn
			return m, func() tea.Msg {
				echoFn(v)
				return nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil

	case changeMsg:
		m.snap = m.source.Snapshot()
		return m, tea.Batch(waitForChange(m.changes), tea.SetWindowTitle(windowTitle(m.snap)))

	case tickMsg:
		m.snap = m.source.Snapshot()
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(windowTitle(m.snap)))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(renderBar(m.snap, m.width))
	b.WriteByte('\n')
	if m.snap.VoiceError != "" {
		b.WriteString(urgentOutputStyle.Render(" " + m.snap.VoiceError))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

// ── Status bar ───────────────────────────────────────────────────

// segment is one plain-text piece of the status bar and how to style it.
type segment struct {
	text  string
	style lipgloss.Style
}

// statusSegments lays out the bar for a snapshot, most important first.
func statusSegments(s domain.Snapshot) []segment {
	var segs []segment
	switch s.Phase {
	case domain.PhaseMenu:
		segs = append(segs, segment{"MENU", labelStyle})
	case domain.PhaseCooking:
		clock := clockStyle
		if s.TimeRemaining <= lowTimeSeconds {
			clock = clockLowStyle
		}
		segs = append(segs,
			segment{s.Recipe.Name, labelStyle},
			segment{fmtClock(s.TimeRemaining), clock},
			segment{fmt.Sprintf("%d/%d added", len(s.PlayerIngredients), len(s.Recipe.Ingredients)), labelStyle},
		)
		for _, c := range s.Challenges {
			segs = append(segs, segment{c.Description, labelStyle})
		}
	case domain.PhaseCompleted:
		segs = append(segs, segment{"DONE: " + s.Recipe.Name, clockStyle})
	}

	mic := "mic off"
	if s.Listening {
		mic = "mic on"
	}
	segs = append(segs,
		segment{fmt.Sprintf("score %d", s.Score), labelStyle},
		segment{fmt.Sprintf("level %d", s.Level), labelStyle},
		segment{mic, labelStyle},
	)
	return segs
}

// fitSegments drops trailing segments until the bar fits width columns.
func fitSegments(segs []segment, width int) []segment {
	const sep = 5 // "  │  "
	used := 2     // leading and trailing space
	for i, sg := range segs {
		w := runewidth.StringWidth(sg.text)
		if i > 0 {
			w += sep
		}
		if used+w > width {
			return segs[:i]
		}
		used += w
	}
	return segs
}

func renderBar(s domain.Snapshot, width int) string {
	if width <= 0 {
		width = 80
	}
	segs := fitSegments(statusSegments(s), width)

	parts := make([]string, len(segs))
	for i, sg := range segs {
		parts[i] = sg.style.Render(sg.text)
	}
	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "
	return barBg.Width(width).Render(content)
}

func windowTitle(s domain.Snapshot) string {
	switch s.Phase {
	case domain.PhaseCooking:
		return appTitle + " | " + s.Recipe.Name + " " + fmtClock(s.TimeRemaining)
	case domain.PhaseCompleted:
		return appTitle + " | " + s.Recipe.Name + " done"
	default:
		return appTitle
	}
}

// ── Helpers ──────────────────────────────────────────────────────

// fmtClock renders whole seconds as m:ss.
func fmtClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
