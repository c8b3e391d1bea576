package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/otel"
)

type openListMsg struct {
	res catalog.Resource
}

var (
	dashUp      = key.NewBinding(key.WithKeys("up", "k"))
	dashDown    = key.NewBinding(key.WithKeys("down", "j"))
	dashOpen    = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	dashRefresh = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
)

// Dashboard is the home screen: every resource with its status counts.
type Dashboard struct {
	env       *env
	resources []catalog.Resource
	seq       uint64
	rows      []api.Overview
	loading   bool
	cursor    int
	width     int
}

func newDashboard(e *env) *Dashboard {
	return &Dashboard{env: e, resources: catalog.All()}
}

// Init fetches every resource's counts in parallel.
func (d *Dashboard) Init() tea.Cmd {
	d.seq++
	d.loading = true
	return overviewsCmd(d.env.ctx, d.env.backend, d.seq)
}

// Loading reports whether counts are being fetched.
func (d *Dashboard) Loading() bool { return d.loading }

// Cursor is the highlighted row.
func (d *Dashboard) Cursor() int { return d.cursor }

// Update handles one message addressed to the dashboard.
func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		return nil

	case OverviewsLoaded:
		if msg.Seq != d.seq {
			return nil
		}
		d.loading = false
		d.rows = msg.Overviews
		for _, o := range msg.Overviews {
			if o.Err != nil {
				d.env.events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindCountsError, Comp: "ui", Resource: o.Resource.Name, Err: o.Err.Error()})
			}
		}
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, dashUp):
			d.cursor = max(d.cursor-1, 0)
		case key.Matches(msg, dashDown):
			d.cursor = min(d.cursor+1, len(d.resources)-1)
		case key.Matches(msg, dashRefresh):
			return d.Init()
		case key.Matches(msg, dashOpen):
			return d.open(d.cursor)
		default:
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(d.resources) {
				d.cursor = n - 1
				return d.open(d.cursor)
			}
		}
	}
	return nil
}

func (d *Dashboard) open(i int) tea.Cmd {
	res := d.resources[i]
	return func() tea.Msg { return openListMsg{res: res} }
}

func (d *Dashboard) overview(name string) (api.Overview, bool) {
	for _, o := range d.rows {
		if o.Resource.Name == name {
			return o, true
		}
	}
	return api.Overview{}, false
}

// View renders the dashboard. spin is the shared spinner frame.
func (d *Dashboard) View(spin string) string {
	head := TitleStyle.Render("Moderation console")
	if d.loading {
		head += " " + spin
	}

	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("#", "Resource", "Total", "By status").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == ltable.HeaderRow {
				return s.Bold(true).Foreground(colorHighlight)
			}
			if row == d.cursor {
				return s.Foreground(lipgloss.Color("255")).Background(colorPrimary)
			}
			return s
		})

	for i, res := range d.resources {
		total, detail := "…", ""
		if o, ok := d.overview(res.Name); ok {
			if o.Err != nil {
				total, detail = "-", "unavailable: "+api.Message(o.Err)
			} else {
				total = strconv.Itoa(o.Counts.Total())
				detail = statusSummary(res, o)
			}
		}
		t.Row(strconv.Itoa(i+1), res.Title, total, detail)
	}

	hint := StatusBarText.Render("1-" + strconv.Itoa(len(d.resources)) + "/enter: open  r: refresh  `: debug  q: quit")
	return head + "\n" + t.Render() + "\n" + hint
}

func statusSummary(res catalog.Resource, o api.Overview) string {
	parts := make([]string, 0, len(res.Statuses))
	for _, s := range res.Statuses {
		parts = append(parts, fmt.Sprintf("%s %d", s.Label, o.Counts[s.Value]))
	}
	return strings.Join(parts, " · ")
}
