package ui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/debounce"
	"github.com/abelbrown/moderator/internal/logging"
	"github.com/abelbrown/moderator/internal/otel"
	"github.com/abelbrown/moderator/internal/store"
	"github.com/abelbrown/moderator/internal/ui/dialog"
)

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT call the backend. Screens return commands and
// results come back as messages tagged with the screen that asked.
type App struct {
	env       *env
	ring      *otel.RingBuffer
	noticeTTL time.Duration

	dash   *Dashboard
	list   *ListScreen
	detail *DetailScreen
	nextID int

	changes <-chan store.Change

	spin      spinner.Model
	spinning  bool
	toast     toast
	showDebug bool

	width  int
	height int
	ready  bool
}

// NewApp creates the console. ctx bounds every backend call.
func NewApp(ctx context.Context, o Options) App {
	e := newEnv(ctx, o)
	ttl := o.NoticeTTL
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := App{
		env:       e,
		ring:      o.Ring,
		noticeTTL: ttl,
		dash:      newDashboard(e),
		changes:   e.store.Subscribe(),
		spin:      sp,
		// Init starts the first tick; the dashboard is loading.
		spinning: true,
	}
	if res, ok := catalog.Lookup(o.Start); ok {
		a.list = newListScreen(e, a.newID(), res)
	}
	return a
}

func (a *App) newID() int {
	a.nextID++
	return a.nextID
}

// Init loads the dashboard (and the start list, if any) and starts
// listening for store changes.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.dash.Init(), waitForChange(a.changes)}
	if a.list != nil {
		cmds = append(cmds, a.list.Init())
	}
	cmds = append(cmds, a.spin.Tick)
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.env.events.Tracing() {
		a.env.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}
	cmd := a.route(msg)
	if a.busy() && !a.spinning {
		a.spinning = true
		cmd = tea.Batch(cmd, a.spin.Tick)
	}
	return a, cmd
}

func (a *App) route(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.ready = true
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-1, 1)}
		a.dash.Update(inner)
		if a.list != nil {
			a.list.Update(inner)
		}
		if a.detail != nil {
			a.detail.Update(inner)
		}
		return nil

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return cmd

	case controller.Notice:
		return expireNotice(a.noticeTTL, a.toast.show(msg))

	case NoticeExpired:
		a.toast.expire(msg.ID)
		return nil

	case openListMsg:
		return a.openList(msg.res)

	case openDetailMsg:
		a.detail = newDetailScreen(a.env, a.newID(), msg.res, msg.rec)
		a.detail.Update(tea.WindowSizeMsg{Width: a.width, Height: max(a.height-1, 1)})
		return a.detail.Init()

	case OverviewsLoaded:
		return a.dash.Update(msg)

	case PageLoaded:
		if a.list != nil && a.list.id == msg.Screen {
			return a.list.Update(msg)
		}
		a.env.events.Fetch("", msg.Seq, len(msg.Page.Records), msg.Dur, true, msg.Err)
		return nil

	case CountsLoaded:
		if a.list != nil && a.list.id == msg.Screen {
			return a.list.Update(msg)
		}
		return nil

	case PrefsLoaded:
		if a.list != nil && a.list.id == msg.Screen {
			return a.list.Update(msg)
		}
		return nil

	case ActionDone:
		if a.list != nil && a.list.id == msg.Screen {
			return tea.Batch(a.list.Update(msg), a.afterAction(msg))
		}
		// The screen is gone but the backend changed; keep the record.
		a.env.events.Action(msg.Action.Resource, msg.Action.Op.String(), len(msg.Action.IDs), msg.Dur, msg.Err)
		return journalCmd(a.env.ctx, a.env.journal, msg.Action, msg.Err)

	case recordActionMsg:
		if a.list != nil && a.list.res.Name == msg.res {
			return a.list.Update(msg)
		}
		return nil

	case DetailLoaded:
		if a.detail != nil && a.detail.id == msg.Screen {
			return a.detail.Update(msg)
		}
		return nil

	case debounce.Fired, dialog.Submitted, dialog.Cancelled:
		if a.list != nil {
			return a.list.Update(msg)
		}
		return nil

	case StoreChanged:
		var cmd tea.Cmd
		if a.detail != nil {
			cmd = a.detail.Update(msg)
		}
		return tea.Batch(cmd, waitForChange(a.changes))

	case JournalWritten:
		if msg.Err != nil {
			logging.Warn("journal write failed", "error", msg.Err)
			a.env.events.Error(otel.KindJournalError, "ui", msg.Err)
		}
		return nil

	case ExportDone:
		if msg.Err != nil {
			return notify(controller.Notice{Level: controller.LevelError, Text: "Export failed: " + msg.Err.Error()})
		}
		return notify(controller.Notice{Level: controller.LevelSuccess, Text: fmt.Sprintf("Exported %d records to %s", msg.Count, msg.Path)})

	case Copied:
		if msg.Err != nil {
			return notify(controller.Notice{Level: controller.LevelWarn, Text: "Clipboard unavailable: " + msg.Err.Error()})
		}
		return notify(controller.Notice{Level: controller.LevelInfo, Text: "Copied " + msg.Text})
	}

	if a.list != nil && (a.detail == nil || a.list.DialogActive()) {
		return a.list.Update(msg)
	}
	return nil
}

// afterAction keeps an open detail screen in step with an action on its
// record: a delete closes it, anything else reloads it.
func (a *App) afterAction(msg ActionDone) tea.Cmd {
	if a.detail == nil || msg.Err != nil || !slices.Contains(msg.Action.IDs, a.detail.rec.ID) {
		return nil
	}
	switch msg.Action.Op {
	case controller.OpDelete, controller.OpDeleteTarget:
		a.detail = nil
		return nil
	}
	return a.detail.Init()
}

func (a *App) openList(res catalog.Resource) tea.Cmd {
	if a.list != nil {
		a.list.Close()
	}
	a.detail = nil
	a.list = newListScreen(a.env, a.newID(), res)
	a.list.Update(tea.WindowSizeMsg{Width: a.width, Height: max(a.height-1, 1)})
	return a.list.Init()
}

// capturing reports whether the active screen owns every key. A list
// dialog captures keys even over the detail screen that opened it.
func (a *App) capturing() bool {
	if a.list == nil {
		return false
	}
	return a.list.DialogActive() || (a.detail == nil && a.list.Searching())
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return a.quit()
	}
	if !a.capturing() {
		switch {
		case key.Matches(msg, global.Debug):
			a.showDebug = !a.showDebug
			return nil
		case a.showDebug && key.Matches(msg, global.Back):
			a.showDebug = false
			return nil
		case key.Matches(msg, global.Quit):
			return a.quit()
		case key.Matches(msg, global.Help):
			if a.list != nil && a.detail == nil {
				a.list.help.ShowAll = !a.list.help.ShowAll
			}
			return nil
		case key.Matches(msg, global.Back):
			return a.back()
		}
	}

	switch {
	case a.list != nil && a.list.DialogActive():
		return a.list.Update(msg)
	case a.detail != nil:
		return a.detail.Update(msg)
	case a.list != nil:
		return a.list.Update(msg)
	}
	return a.dash.Update(msg)
}

func (a *App) back() tea.Cmd {
	switch {
	case a.detail != nil:
		a.detail = nil
		return nil
	case a.list != nil:
		a.list.Close()
		a.list = nil
		return a.dash.Init()
	}
	return nil
}

func (a *App) quit() tea.Cmd {
	if a.list != nil {
		a.list.Close()
	}
	a.env.store.Unsubscribe(a.changes)
	return tea.Quit
}

func (a *App) busy() bool {
	switch {
	case a.detail != nil:
		return a.detail.Loading()
	case a.list != nil:
		return a.list.Loading() || a.list.ctl.Busy()
	}
	return a.dash.Loading()
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.showDebug {
		return debugOverlay(a.ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	var body string
	spin := a.spin.View()
	switch {
	case a.detail != nil && a.list != nil && a.list.DialogActive():
		body = a.list.View(spin)
	case a.detail != nil:
		body = a.detail.View(spin)
	case a.list != nil:
		body = a.list.View(spin)
	default:
		body = a.dash.View(spin)
	}
	return body + "\n" + a.toast.view(a.width)
}

// Screen names the active screen (for testing).
func (a App) Screen() string {
	switch {
	case a.detail != nil:
		return "detail"
	case a.list != nil:
		return "list:" + a.list.res.Name
	}
	return "dashboard"
}

// List returns the open list screen, or nil.
func (a App) List() *ListScreen { return a.list }

// Detail returns the open detail screen, or nil.
func (a App) Detail() *DetailScreen { return a.detail }

// Dashboard returns the home screen.
func (a App) Dashboard() *Dashboard { return a.dash }

// Notice returns the visible notice, if any.
func (a App) Notice() (controller.Notice, bool) {
	return a.toast.notice, a.toast.visible
}

// DebugVisible reports whether the debug overlay is shown.
func (a App) DebugVisible() bool { return a.showDebug }
