// Package tui is the Bubble Tea front end: the timeline strip, the temporal
// radar, the analytics view, and the task modal, wired to the backend
// client, the verification gate, and the event bus.
package tui

import (
	"context"
	"errors"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/kryta/internal/api"
	"github.com/aristath/kryta/internal/config"
	"github.com/aristath/kryta/internal/dashboard"
	"github.com/aristath/kryta/internal/events"
	"github.com/aristath/kryta/internal/lifecycle"
	"github.com/aristath/kryta/internal/store"
	"github.com/aristath/kryta/internal/verify"
)

// ViewID identifies which pane is focused.
type ViewID int

const (
	ViewTimeline ViewID = iota
	ViewRadar
	ViewAnalytics
)

// toastDuration is how long transient notifications stay on screen.
const toastDuration = 4 * time.Second

// Messages produced by the model's async commands.
type (
	refreshDoneMsg struct {
		data    *api.DashboardData
		offline bool
		err     error
	}
	planDoneMsg struct {
		goal  string
		tasks []*lifecycle.Task
		err   error
	}
	verifyDoneMsg struct {
		sessionID string
		taskID    string
		outcome   lifecycle.Outcome
		err       error
	}
	analyticsDoneMsg struct {
		data    *api.Analytics
		offline bool
		err     error
	}
	onboardDoneMsg struct{ err error }
	keySavedMsg    struct{ err error }
	sessionTickMsg struct{ sessionID string }
	minuteTickMsg  struct{ now time.Time }
	toastClearMsg  struct{ tag int }
)

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	client  *api.Client
	gate    *verify.Gate
	cache   store.Store
	bus     *events.Bus
	cfg     *config.AppConfig
	agg     *dashboard.Aggregator
	scanner *dashboard.ReminderScanner

	timelinePane  TimelinePaneModel
	radarPane     RadarPaneModel
	analyticsPane AnalyticsPaneModel
	settingsPane  SettingsPaneModel
	goalForm      GoalFormModel
	onboardForm   OnboardFormModel
	taskModal     *TaskModalModel

	tasks   []*lifecycle.Task
	user    store.UserSnapshot
	offline bool

	focusedView    ViewID
	eventSub       <-chan events.Event
	lockdownReason string
	toast          string
	toastTag       int
	now            time.Time
	width          int
	height         int
	quitting       bool
}

// New creates a new TUI model. It subscribes to all events from the event
// bus using SubscribeAll.
func New(client *api.Client, gate *verify.Gate, cache store.Store, bus *events.Bus, cfg *config.AppConfig, globalPath, projectPath string) Model {
	agg := &dashboard.Aggregator{
		LookaheadMinutes: cfg.Views.LookaheadMinutes,
		MinArcDegrees:    cfg.Views.MinArcDegrees,
	}

	return Model{
		client:        client,
		gate:          gate,
		cache:         cache,
		bus:           bus,
		cfg:           cfg,
		agg:           agg,
		scanner:       dashboard.NewReminderScanner(bus),
		timelinePane:  NewTimelinePaneModel(agg, cfg.Views.CellsPerHour),
		radarPane:     NewRadarPaneModel(agg, cfg.Views.ScanDays),
		analyticsPane: NewAnalyticsPaneModel(),
		settingsPane:  NewSettingsPaneModel(cfg, globalPath, projectPath),
		goalForm:      NewGoalForm(),
		onboardForm:   NewOnboardForm(),
		focusedView:   ViewTimeline,
		eventSub:      bus.SubscribeAll(256),
		now:           time.Now(),
	}
}

// Init initializes the model and returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.eventSub),
		m.refreshCmd(),
		m.analyticsCmd(),
		minuteTick(),
	)
}

// waitForEvent returns a command that waits for the next event from the
// event bus.
func waitForEvent(sub <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub
		if !ok {
			return nil // bus closed
		}
		return event
	}
}

// minuteTick fires roughly on minute boundaries for the now marker and the
// reminder scan.
func minuteTick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return minuteTickMsg{now: t}
	})
}

// sessionTick drives one session's countdown. The tick carries the session
// id so a tick that outlives its session is dropped instead of mutating
// whatever session replaced it.
func sessionTick(sessionID string) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return sessionTickMsg{sessionID: sessionID}
	})
}

func toastClear(tag int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastClearMsg{tag: tag}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.computeLayout()

	case refreshDoneMsg:
		if msg.err != nil {
			m, cmds = m.showToast("Refresh failed: "+msg.err.Error(), cmds)
			break
		}
		m.tasks = msg.data.Tasks
		m.user = msg.data.User
		m.offline = msg.offline
		m.syncPanes()
		if m.user.Name == "" && !m.offline && !m.onboardForm.IsVisible() {
			m.onboardForm.SetVisible(true)
			cmds = append(cmds, m.onboardForm.Init())
		}
		m.bus.Publish(events.TopicSystem, events.RefreshedEvent{Tasks: len(m.tasks), Timestamp: time.Now()})

	case planDoneMsg:
		if msg.err != nil {
			m, cmds = m.showToast("Planning failed: "+msg.err.Error(), cmds)
			break
		}
		// New plan steps join the collection; they never replace it.
		m.tasks = append(m.tasks, msg.tasks...)
		m.syncPanes()
		m.bus.Publish(events.TopicTask, events.PlanReceivedEvent{
			Goal:      msg.goal,
			Count:     len(msg.tasks),
			Timestamp: time.Now(),
		})
		cmds = append(cmds, m.cacheTasksCmd())

	case verifyDoneMsg:
		cmds = m.handleVerifyDone(msg, cmds)

	case analyticsDoneMsg:
		if msg.err != nil {
			m, cmds = m.showToast("Analytics unavailable: "+msg.err.Error(), cmds)
			break
		}
		m.analyticsPane.SetAnalytics(msg.data, msg.offline)

	case onboardDoneMsg:
		if msg.err != nil {
			m.onboardForm.SetVisible(true)
			m, cmds = m.showToast("Onboarding failed: "+msg.err.Error(), cmds)
			break
		}
		cmds = append(cmds, m.refreshCmd())

	case keySavedMsg:
		if msg.err != nil {
			m, cmds = m.showToast("Saving key failed: "+msg.err.Error(), cmds)
		} else {
			m, cmds = m.showToast("API key saved", cmds)
		}

	case sessionTickMsg:
		cmds = m.handleSessionTick(msg, cmds)

	case minuteTickMsg:
		m.now = msg.now
		m.timelinePane.SetNow(msg.now)
		m.radarPane.SetNow(msg.now)
		m.syncPanes()
		if m.cfg.Reminders.Enabled {
			m.scanner.Scan(m.tasks, msg.now)
		}
		cmds = append(cmds, minuteTick())

	case toastClearMsg:
		if msg.tag == m.toastTag {
			m.toast = ""
		}

	case events.ReminderEvent:
		m, cmds = m.showToast("⏰ "+msg.Title+" starts now", cmds)
		cmds = append(cmds, waitForEvent(m.eventSub))

	case events.LockdownEvent:
		m.lockdownReason = msg.Reason
		cmds = append(cmds, waitForEvent(m.eventSub))

	case events.VerificationResultEvent:
		if msg.Stale {
			m, cmds = m.showToast("Discarded a late verification result", cmds)
		}
		cmds = append(cmds, waitForEvent(m.eventSub))

	case events.PlanReceivedEvent, events.TaskOpenedEvent, events.TimerFinishedEvent, events.RefreshedEvent:
		cmds = append(cmds, waitForEvent(m.eventSub))
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes key presses. Overlays are modal: whichever is open
// swallows every key.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	// Lockdown banner blocks everything except acknowledgement.
	if m.lockdownReason != "" {
		if msg.String() == KeyEnter || msg.String() == KeyEsc {
			m.lockdownReason = ""
		}
		return m, nil
	}

	if m.onboardForm.IsVisible() {
		var cmd tea.Cmd
		var done bool
		m.onboardForm, cmd, done = m.onboardForm.Update(msg)
		cmds = append(cmds, cmd)
		if done {
			cmds = append(cmds, m.onboardCmd(m.onboardForm.Profile()))
		}
		return m, tea.Batch(cmds...)
	}

	if m.settingsPane.IsVisible() {
		var cmd tea.Cmd
		m.settingsPane, cmd = m.settingsPane.Update(msg)
		cmds = append(cmds, cmd)
		if !m.settingsPane.IsVisible() && m.settingsPane.Saved() {
			m.radarPane.SetTasks(m.tasks)
			if key := m.settingsPane.PendingAPIKey(); key != "" {
				cmds = append(cmds, m.saveKeyCmd(key))
			}
		}
		return m, tea.Batch(cmds...)
	}

	if m.goalForm.IsVisible() {
		var cmd tea.Cmd
		var done bool
		m.goalForm, cmd, done = m.goalForm.Update(msg)
		cmds = append(cmds, cmd)
		if done {
			goal, minutes := m.goalForm.Values()
			cmds = append(cmds, m.planCmd(goal, minutes))
		}
		return m, tea.Batch(cmds...)
	}

	if m.taskModal != nil {
		return m.handleModalKey(msg)
	}

	// Normal mode
	switch msg.String() {
	case KeyQuit:
		m.quitting = true
		return m, tea.Quit

	case KeySettings:
		m.settingsPane.SetVisible(true)
		cmds = append(cmds, m.settingsPane.Init())

	case KeyGoal:
		m.goalForm.SetVisible(true)
		cmds = append(cmds, m.goalForm.Init())

	case KeyRefresh:
		cmds = append(cmds, m.refreshCmd(), m.analyticsCmd())

	case KeyTab:
		m.focusedView = (m.focusedView + 1) % 3
		m.updateFocusStates()

	case KeyShiftTab:
		m.focusedView = (m.focusedView + 2) % 3 // +2 is equivalent to -1 mod 3
		m.updateFocusStates()

	case KeyView1:
		m.focusedView = ViewTimeline
		m.updateFocusStates()

	case KeyView2:
		m.focusedView = ViewRadar
		m.updateFocusStates()

	case KeyView3:
		m.focusedView = ViewAnalytics
		m.updateFocusStates()

	case KeyEnter:
		return m.openSelectedTask()

	default:
		switch m.focusedView {
		case ViewTimeline:
			var cmd tea.Cmd
			m.timelinePane, cmd = m.timelinePane.Update(msg)
			cmds = append(cmds, cmd)
		case ViewRadar:
			var cmd tea.Cmd
			m.radarPane, cmd = m.radarPane.Update(msg)
			cmds = append(cmds, cmd)
		case ViewAnalytics:
			var cmd tea.Cmd
			m.analyticsPane, cmd = m.analyticsPane.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// handleModalKey routes keys while the task modal is open.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	session := m.taskModal.Session()

	switch msg.String() {
	case KeyEsc:
		session.Close()
		m.taskModal = nil
		m.syncPanes()
		return m, nil

	case KeyTimer:
		if err := session.Toggle(); err != nil {
			m.taskModal.SetError(err.Error())
		} else {
			m.taskModal.SetError("")
		}
		return m, nil

	case KeySubmit:
		if m.taskModal.Submitting() || m.gate.InFlight(session.Task.ID) {
			return m, nil
		}
		m.taskModal.SetSubmitting(true)
		m.taskModal.SetError("")
		cmds = append(cmds, m.verifyCmd(session.ID, session.Task.ID, m.taskModal.Proof()))
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	*m.taskModal, cmd = m.taskModal.Update(msg)
	return m, cmd
}

// openSelectedTask opens the focused pane's selection in the task modal.
func (m Model) openSelectedTask() (tea.Model, tea.Cmd) {
	var task *lifecycle.Task
	switch m.focusedView {
	case ViewTimeline:
		task = m.timelinePane.Selected()
	case ViewRadar:
		task = m.radarPane.Selected()
	}
	if task == nil {
		return m, nil
	}

	var cmds []tea.Cmd
	if !task.Open() {
		m, cmds = m.showToast("Task is already completed", cmds)
		return m, tea.Batch(cmds...)
	}

	session := lifecycle.Open(task)
	modal := NewTaskModal(session, dashboard.ChainFor(m.tasks, task))
	modal.SetSize(m.width, m.height)
	m.taskModal = &modal

	m.bus.Publish(events.TopicTask, events.TaskOpenedEvent{
		ID:        task.ID,
		Title:     task.Title,
		Timestamp: time.Now(),
	})

	cmds = append(cmds, sessionTick(session.ID))
	return m, tea.Batch(cmds...)
}

// handleSessionTick advances the countdown of the session the tick belongs
// to. Ticks from replaced or closed sessions are dropped.
func (m *Model) handleSessionTick(msg sessionTickMsg, cmds []tea.Cmd) []tea.Cmd {
	if m.taskModal == nil {
		return cmds
	}
	session := m.taskModal.Session()
	if session.ID != msg.sessionID || session.Closed() {
		return cmds
	}

	wasRunning := session.Running
	session.Tick()
	if wasRunning && session.RemainingSeconds == 0 {
		m.bus.Publish(events.TopicTimer, events.TimerFinishedEvent{
			ID:        session.Task.ID,
			Timestamp: time.Now(),
		})
		var toastCmds []tea.Cmd
		*m, toastCmds = m.showToast("⧗ Time's up. Submit your proof.", nil)
		cmds = append(cmds, toastCmds...)
	}

	return append(cmds, sessionTick(session.ID))
}

// handleVerifyDone folds a verification result into the session, the modal,
// and the HUD. The session is only ever mutated here, on the update loop,
// never on the command goroutine that carried the request.
func (m *Model) handleVerifyDone(msg verifyDoneMsg, cmds []tea.Cmd) []tea.Cmd {
	if msg.err != nil {
		if m.taskModal == nil || m.taskModal.Session().ID != msg.sessionID {
			return cmds
		}
		m.taskModal.SetSubmitting(false)
		if errors.Is(msg.err, verify.ErrEmptyProof) {
			m.taskModal.SetError("Add some proof before submitting.")
		} else {
			m.taskModal.SetError("Verification failed: " + msg.err.Error())
		}
		return cmds
	}

	// The session may have closed or been replaced while the request was on
	// the wire; a late outcome is discarded, never applied.
	if m.taskModal == nil || m.taskModal.Session().ID != msg.sessionID || m.taskModal.Session().Closed() {
		m.gate.DiscardStale(msg.taskID, msg.outcome)
		return cmds
	}

	m.taskModal.SetSubmitting(false)
	if err := m.gate.Commit(context.Background(), m.taskModal.Session(), msg.outcome); err != nil {
		m.taskModal.SetError("Verification failed: " + err.Error())
		return cmds
	}

	switch outcome := msg.outcome.(type) {
	case lifecycle.Completed:
		m.taskModal.SetReward(outcome.Reward)
		m.user.XP = outcome.Reward.TotalUserXP
		m.user.Streak = outcome.Reward.CurrentStreak
		m.taskModal.ClearProof()
		m.syncPanes()
		cmds = append(cmds, m.cacheTasksCmd())
	case lifecycle.Partial:
		m.taskModal.SetError("Partially accepted: " + outcome.Reason)
	case lifecycle.Retry:
		m.taskModal.SetError("Rejected: " + outcome.Reason)
	case lifecycle.Locked:
		// The gate already published the lockdown event; close the modal so
		// the banner takes over.
		m.taskModal = nil
		m.syncPanes()
	}

	return cmds
}

// showToast displays a transient notification.
func (m Model) showToast(text string, cmds []tea.Cmd) (Model, []tea.Cmd) {
	m.toast = text
	m.toastTag++
	return m, append(cmds, toastClear(m.toastTag))
}

// syncPanes pushes the current collection into the view panes.
func (m *Model) syncPanes() {
	m.timelinePane.SetTasks(m.agg.FilterForDate(m.tasks, m.now))
	m.radarPane.SetTasks(m.tasks)
}

// Async commands. Each talks to one collaborator endpoint and reports back
// as a message; the cache is written on the same goroutine so the UI loop
// never blocks on SQLite.

func (m Model) refreshCmd() tea.Cmd {
	client, cache := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		data, err := client.Refresh(ctx)
		if err == nil {
			if cache != nil {
				if err := cache.SaveTasks(ctx, data.Tasks); err == nil {
					cache.SaveUser(ctx, data.User)
				}
			}
			return refreshDoneMsg{data: data}
		}

		// Collaborator down: serve the last cached state so the views stay
		// usable offline.
		if cache != nil {
			tasks, cacheErr := cache.ListTasks(ctx)
			if cacheErr == nil {
				user, _ := cache.GetUser(ctx)
				return refreshDoneMsg{data: &api.DashboardData{User: user, Tasks: tasks}, offline: true}
			}
		}
		return refreshDoneMsg{err: err}
	}
}

func (m Model) cacheTasksCmd() tea.Cmd {
	cache, tasks := m.cache, m.tasks
	return func() tea.Msg {
		if cache == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		cache.SaveTasks(ctx, tasks)
		return nil
	}
}

func (m Model) planCmd(goal string, minutes int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		configured, err := client.KeyConfigured(ctx)
		if err == nil && !configured {
			return planDoneMsg{goal: goal, err: errors.New("no API key configured, add one in settings")}
		}

		tasks, err := client.PlanDay(ctx, goal, minutes)
		return planDoneMsg{goal: goal, tasks: tasks, err: err}
	}
}

func (m Model) verifyCmd(sessionID, taskID, proof string) tea.Cmd {
	gate := m.gate
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		outcome, err := gate.Submit(ctx, taskID, proof, "")
		return verifyDoneMsg{sessionID: sessionID, taskID: taskID, outcome: outcome, err: err}
	}
}

func (m Model) analyticsCmd() tea.Cmd {
	client, cache := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		data, err := client.GetAnalytics(ctx)
		if err == nil {
			return analyticsDoneMsg{data: data}
		}

		// Offline fallback: rebuild the headline numbers from the local
		// attempt log.
		if cache != nil {
			completed, failed, cacheErr := cache.AttemptCounts(ctx)
			if cacheErr == nil {
				rate := 0
				if completed+failed > 0 {
					rate = completed * 100 / (completed + failed)
				}
				return analyticsDoneMsg{
					data: &api.Analytics{Stats: api.AnalyticsStats{
						CompletionRate: rate,
						TotalCompleted: completed,
						TotalFailed:    failed,
					}},
					offline: true,
				}
			}
		}
		return analyticsDoneMsg{err: err}
	}
}

func (m Model) onboardCmd(profile api.Profile) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return onboardDoneMsg{err: client.OnboardUser(ctx, profile)}
	}
}

func (m Model) saveKeyCmd(key string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return keySavedMsg{err: client.SaveKey(ctx, key)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.lockdownReason != "" {
		return m.renderLockdown()
	}
	if m.onboardForm.IsVisible() {
		return m.onboardForm.View()
	}
	if m.settingsPane.IsVisible() {
		return m.settingsPane.View()
	}
	if m.goalForm.IsVisible() {
		return m.goalForm.View()
	}
	if m.taskModal != nil {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHUD(), m.taskModal.View())
	}

	leftPane := m.timelinePane.View()
	rightTop := m.radarPane.View()
	rightBottom := m.analyticsPane.View()
	rightPane := lipgloss.JoinVertical(lipgloss.Left, rightTop, rightBottom)
	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHUD(), mainContent, HelpView())
}

// renderHUD draws the status corner: user, XP, streak, plus any toast.
func (m Model) renderHUD() string {
	name := m.user.Name
	if name == "" {
		name = "operator"
	}
	hud := StyleHUD.Render("✦ " + name)
	hud += StyleTaskPast.Render("  ·  ") + StyleSuccess.Render(strconv.Itoa(m.user.XP)+" XP")
	hud += StyleTaskPast.Render("  ·  ") + StyleTimer.Render("🔥 "+strconv.Itoa(m.user.Streak))
	if m.offline {
		hud += StyleTaskPast.Render("  ·  offline")
	}
	if m.toast != "" {
		hud += "  " + StyleToast.Render(m.toast)
	}
	return hud
}

// renderLockdown draws the full-screen lockdown banner.
func (m Model) renderLockdown() string {
	banner := StyleLockdown.Render(
		"⛔ LOCKDOWN\n\n" +
			m.lockdownReason + "\n\n" +
			StyleHelp.Render("press enter to acknowledge"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, banner)
}

// computeLayout calculates pane dimensions and updates all child models.
func (m *Model) computeLayout() {
	leftWidth := (m.width * 55) / 100
	rightWidth := m.width - leftWidth
	availableHeight := m.height - 2
	rightTopHeight := (availableHeight * 60) / 100
	rightBottomHeight := availableHeight - rightTopHeight

	m.timelinePane.SetSize(leftWidth, availableHeight)
	m.radarPane.SetSize(rightWidth, rightTopHeight)
	m.analyticsPane.SetSize(rightWidth, rightBottomHeight)
	m.settingsPane.SetSize(m.width, m.height)
	m.goalForm.SetSize(m.width, m.height)
	m.onboardForm.SetSize(m.width, m.height)
	if m.taskModal != nil {
		m.taskModal.SetSize(m.width, m.height)
	}

	m.updateFocusStates()
}

// updateFocusStates updates the focus state of all panes.
func (m *Model) updateFocusStates() {
	m.timelinePane.SetFocused(m.focusedView == ViewTimeline)
	m.radarPane.SetFocused(m.focusedView == ViewRadar)
	m.analyticsPane.SetFocused(m.focusedView == ViewAnalytics)
}

