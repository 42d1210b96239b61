package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/gitsync/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/gitsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gitsync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gitsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gitsync/internal/core/domain"
)

const (
	// RefreshInterval is how often the scheduler status is polled.
	RefreshInterval = time.Second

	// MaxNotifications is how many notifications the monitor keeps.
	MaxNotifications = 5

	historyLimit = 50
)

// App is the monitor application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	help      help.Model
	spinner   spinner.Model
	statusBar *status.Bar

	// status is the last scheduler snapshot.
	status domain.SchedulerStatus

	// lastRuns holds the newest recorded run per folder.
	lastRuns map[string]domain.FolderRun

	// notifications are newest first.
	notifications []domain.Notification
	streamClosed  bool

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a monitor for the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Warning

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		help:      help.New(),
		spinner:   sp,
		statusBar: status.NewBar(s, km),
		status:    ports.Scheduler.Status(),
		lastRuns:  make(map[string]domain.FolderRun),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("gitsync"),
		a.spinner.Tick,
		a.refreshStatus(),
		a.loadHistory(),
		a.waitForNotification(),
		scheduleRefresh(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.RefreshRequested:
		return a, tea.Batch(a.refreshStatus(), a.loadHistory(), scheduleRefresh())

	case messages.StatusRefreshed:
		a.status = msg.Status
		a.syncStatusBar()
		return a, nil

	case messages.HistoryLoaded:
		if msg.Err != nil {
			a.err = fmt.Errorf("loading history: %w", msg.Err)
		} else {
			a.setHistory(msg.Runs)
		}
		a.syncStatusBar()
		return a, nil

	case messages.NotificationReceived:
		a.notifications = append([]domain.Notification{msg.Notification}, a.notifications...)
		if len(a.notifications) > MaxNotifications {
			a.notifications = a.notifications[:MaxNotifications]
		}
		return a, a.waitForNotification()

	case messages.NotificationsClosed:
		a.streamClosed = true
		return a, nil

	case messages.ToggleCompleted:
		a.err = msg.Err
		a.syncStatusBar()
		if msg.Err != nil {
			return a, nil
		}
		return a, a.refreshStatus()

	case messages.TriggerCompleted:
		a.err = msg.Err
		a.syncStatusBar()
		if msg.Err == nil && msg.RoundID == "" {
			a.statusBar.SetState(status.StateIdle)
			a.statusBar.SetMessage("no folder configured")
		}
		return a, a.refreshStatus()
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keymap.Toggle):
		return a, a.toggle(!a.status.Enabled)
	case key.Matches(msg, a.keymap.Trigger):
		return a, a.trigger()
	case key.Matches(msg, a.keymap.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

func (a *App) setHistory(runs []domain.FolderRun) {
	latest := make(map[string]domain.FolderRun, len(runs))
	for _, run := range runs {
		if prev, ok := latest[run.Folder]; ok && !run.StartedAt.After(prev.StartedAt) {
			continue
		}
		latest[run.Folder] = run
	}
	a.lastRuns = latest
}

func (a *App) syncStatusBar() {
	switch {
	case a.err != nil:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(a.err.Error())
	case a.status.Closed:
		a.statusBar.SetState(status.StateIdle)
		a.statusBar.SetMessage("stopped")
	case len(a.status.LiveFolders) > 0:
		a.statusBar.SetState(status.StateSyncing)
		a.statusBar.SetMessage(fmt.Sprintf("%d running", len(a.status.LiveFolders)))
	case a.status.Enabled:
		a.statusBar.SetState(status.StateWatching)
		a.statusBar.SetMessage("every " + a.status.Configuration.Interval().String())
	default:
		a.statusBar.SetState(status.StateIdle)
		a.statusBar.SetMessage("disabled")
	}
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(RefreshInterval, func(time.Time) tea.Msg {
		return messages.RefreshRequested{}
	})
}

func (a *App) refreshStatus() tea.Cmd {
	scheduler := a.ports.Scheduler
	return func() tea.Msg {
		return messages.StatusRefreshed{Status: scheduler.Status()}
	}
}

func (a *App) loadHistory() tea.Cmd {
	history := a.ports.History
	if history == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		runs, err := history.ListRuns(ctx, "", historyLimit)
		return messages.HistoryLoaded{Runs: runs, Err: err}
	}
}

func (a *App) waitForNotification() tea.Cmd {
	ch := a.ports.Notifications
	if ch == nil || a.streamClosed {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return messages.NotificationsClosed{}
		}
		return messages.NotificationReceived{Notification: n}
	}
}

func (a *App) toggle(enabled bool) tea.Cmd {
	scheduler := a.ports.Scheduler
	return func() tea.Msg {
		err := scheduler.SetEnabled(enabled)
		return messages.ToggleCompleted{Enabled: enabled, Err: err}
	}
}

func (a *App) trigger() tea.Cmd {
	scheduler := a.ports.Scheduler
	return func() tea.Msg {
		id, err := scheduler.Trigger()
		return messages.TriggerCompleted{RoundID: id, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(a.styles.Title.Render("gitsync"))
	b.WriteString("  ")
	b.WriteString(a.viewSummary())
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render("Folders"))
	b.WriteString("\n")
	b.WriteString(a.viewFolders())
	b.WriteString("\n")

	b.WriteString(a.styles.Subtitle.Render("Notifications"))
	b.WriteString("\n")
	b.WriteString(a.viewNotifications())
	b.WriteString("\n")

	b.WriteString(a.styles.Help.Render(a.help.View(a.keymap)))
	b.WriteString("\n")
	b.WriteString(a.statusBar.View())

	return b.String()
}

func (a *App) viewSummary() string {
	state := a.styles.Muted.Render("disabled")
	if a.status.Enabled {
		state = a.styles.Success.Render("enabled")
	}
	round := "none"
	if a.status.RoundID != "" {
		round = shortID(a.status.RoundID)
	}
	return a.styles.Muted.Render(fmt.Sprintf("%s · interval %s · round %s",
		state, a.status.Configuration.Interval(), round))
}

func (a *App) viewFolders() string {
	folders := a.status.Configuration.Folders
	if len(folders) == 0 {
		return a.styles.Muted.Render("  No folder configured. Use 'gitsync folder add <path>'.") + "\n"
	}

	live := make(map[string]bool, len(a.status.LiveFolders))
	for _, f := range a.status.LiveFolders {
		live[f] = true
	}

	var b strings.Builder
	for _, folder := range folders {
		b.WriteString("  ")
		b.WriteString(a.styles.Normal.Render(folder))
		b.WriteString("  ")
		b.WriteString(a.viewFolderState(folder, live[folder]))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) viewFolderState(folder string, live bool) string {
	if live {
		return a.spinner.View() + a.styles.Warning.Render(" syncing")
	}
	run, ok := a.lastRuns[folder]
	if !ok {
		return a.styles.Muted.Render("never synced")
	}

	detail := string(run.Outcome)
	if run.Pulled {
		detail += ", pulled"
	}
	if run.Error != "" {
		detail += ": " + run.Error
	}
	when := a.styles.Muted.Render(" at " + run.EndedAt.Local().Format(time.TimeOnly))
	return a.styles.Outcome(run.Outcome).Render(detail) + when
}

func (a *App) viewNotifications() string {
	if len(a.notifications) == 0 {
		return a.styles.Muted.Render("  Nothing yet.") + "\n"
	}
	var b strings.Builder
	for _, n := range a.notifications {
		line := fmt.Sprintf("  %s  %s", n.OccurredAt.Local().Format(time.TimeOnly), n.Body)
		if n.Folder != "" {
			line += "  " + a.styles.Muted.Render(n.Folder)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Status returns the last scheduler snapshot.
func (a *App) Status() domain.SchedulerStatus {
	return a.status
}

// Notifications returns the kept notifications, newest first.
func (a *App) Notifications() []domain.Notification {
	return a.notifications
}

// LastRun returns the newest recorded run for folder.
func (a *App) LastRun(folder string) (domain.FolderRun, bool) {
	run, ok := a.lastRuns[folder]
	return run, ok
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// StatusBar returns the status bar component.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.statusBar.SetWidth(width)
}

// Run starts the monitor and blocks until the user quits or ctx is done.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// Run creates a monitor for ports and runs it until the user quits or ctx is done.
func Run(ctx context.Context, ports *Ports) error {
	app, err := NewApp(ports)
	if err != nil {
		return err
	}
	return app.WithContext(ctx).Run()
}
