package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/model"
	"github.com/abelbrown/moderator/internal/otel"
)

// maxRelated caps the related section.
const maxRelated = 5

// DetailScreen shows one record with every field, the transitions it
// allows and other records sharing its status.
type DetailScreen struct {
	id  int
	env *env
	res catalog.Resource
	rec model.Record

	loading bool
	err     error
	related []model.Record

	vp     viewport.Model
	width  int
	height int
}

var (
	detailCopy   = key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id"))
	detailReload = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	detailDelete = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

// recordActionMsg asks the list that opened a detail screen to act on the
// record shown. The list owns the dialogs and the controller.
type recordActionMsg struct {
	res        string
	id         string
	delete     bool
	transition catalog.Transition
}

// newDetailScreen starts from the list's copy of rec and fetches the full
// record in Init.
func newDetailScreen(e *env, id int, res catalog.Resource, rec model.Record) *DetailScreen {
	d := &DetailScreen{id: id, env: e, res: res, rec: rec, vp: viewport.New(80, 20)}
	d.refreshRelated()
	d.render()
	return d
}

func (d *DetailScreen) Init() tea.Cmd {
	d.loading = true
	return detailCmd(d.env.ctx, d.env.backend, d.id, d.res, d.rec.ID)
}

// Loading reports whether the record fetch is outstanding.
func (d *DetailScreen) Loading() bool { return d.loading }

// Record returns the record on display.
func (d *DetailScreen) Record() model.Record { return d.rec }

// Related returns the related records on display.
func (d *DetailScreen) Related() []model.Record { return d.related }

func (d *DetailScreen) setSize(w, h int) {
	d.width, d.height = w, h
	d.vp.Width = w
	d.vp.Height = max(h-3, 3)
	d.render()
}

// Update handles one message addressed to this screen.
func (d *DetailScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.setSize(msg.Width, msg.Height)
		return nil

	case DetailLoaded:
		d.loading = false
		if msg.Err != nil {
			d.err = msg.Err
			d.env.events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindDetailError, Comp: "ui", Resource: d.res.Name, Err: msg.Err.Error()})
		} else {
			d.err = nil
			d.rec = msg.Record
			d.env.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindDetailComplete, Comp: "ui", Resource: d.res.Name, Msg: msg.Record.ID})
		}
		d.refreshRelated()
		d.render()
		return nil

	case StoreChanged:
		if msg.Change.Resource != d.res.Name {
			return nil
		}
		if r, ok := d.env.store.Find(d.res.Name, d.rec.ID); ok {
			d.rec = r
		}
		d.refreshRelated()
		d.render()
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, detailCopy):
			return copyCmd(d.env.copy, d.rec.ID)
		case key.Matches(msg, detailReload):
			return d.Init()
		case d.deletable() && key.Matches(msg, detailDelete):
			return d.request(recordActionMsg{delete: true})
		}
		// Bulk keys mean nothing for a single record.
		if t, bulk, ok := d.res.TransitionByKey(msg.String()); ok && !bulk && t.Status != d.rec.Status {
			return d.request(recordActionMsg{transition: t})
		}
		var cmd tea.Cmd
		d.vp, cmd = d.vp.Update(msg)
		return cmd
	}
	return nil
}

func (d *DetailScreen) request(msg recordActionMsg) tea.Cmd {
	msg.res, msg.id = d.res.Name, d.rec.ID
	return func() tea.Msg { return msg }
}

func (d *DetailScreen) deletable() bool {
	return d.res.Deletable || d.res.Name == catalog.Reports
}

func (d *DetailScreen) refreshRelated() {
	d.related = nil
	for _, r := range d.env.store.Where(d.res.Name, model.FieldStatus, d.rec.Status) {
		if r.ID == d.rec.ID {
			continue
		}
		d.related = append(d.related, r)
		if len(d.related) == maxRelated {
			break
		}
	}
}

func (d *DetailScreen) render() {
	width := max(d.vp.Width, 40)
	valueWidth := max(width-20, 20)
	pad := strings.Repeat(" ", 18)

	var b strings.Builder
	b.WriteString(SectionHeader.Render("Fields") + "\n")
	for _, k := range d.rec.Keys() {
		v := d.rec.Text(k)
		if k == model.FieldStatus {
			v = statusStyle(d.rec.Status).Render(d.res.StatusLabel(d.rec.Status))
		}
		lines := strings.Split(wordwrap.String(v, valueWidth), "\n")
		b.WriteString(DetailKey.Render(k) + DetailValue.Render(lines[0]) + "\n")
		for _, l := range lines[1:] {
			b.WriteString(pad + DetailValue.Render(l) + "\n")
		}
	}

	b.WriteString(SectionHeader.Render("Actions") + "\n")
	allowed := d.res.Allowed(d.rec.Status)
	if len(allowed) == 0 && !d.deletable() {
		b.WriteString(MutedStyle.Render("  none") + "\n")
	}
	for _, t := range allowed {
		line := fmt.Sprintf("  %s  %s → %s", StatusBarKey.Render(t.Key), t.Name, d.res.StatusLabel(t.Status))
		if t.NeedsReason {
			line += MutedStyle.Render(" (reason required)")
		}
		b.WriteString(line + "\n")
	}
	if d.deletable() {
		b.WriteString(fmt.Sprintf("  %s  delete", StatusBarKey.Render("d")) + "\n")
	}

	b.WriteString(SectionHeader.Render("Same status") + "\n")
	if len(d.related) == 0 {
		b.WriteString(MutedStyle.Render("  none loaded") + "\n")
	}
	label := relatedField(d.res)
	for _, r := range d.related {
		b.WriteString("  " + truncate.StringWithTail(fmt.Sprintf("%-10s %s", r.ID, r.Text(label)), uint(width-2), "…") + "\n")
	}

	d.vp.SetContent(b.String())
}

// relatedField is the first non-id column, used as a record's label.
func relatedField(res catalog.Resource) string {
	for _, c := range res.Columns {
		if c.Field != model.FieldID && c.Field != model.FieldMongo && c.Field != model.FieldStatus {
			return c.Field
		}
	}
	return model.FieldID
}

// View renders the screen. spin is the shared spinner frame.
func (d *DetailScreen) View(spin string) string {
	head := TitleStyle.Render(fmt.Sprintf("%s %s", d.res.Title, d.rec.ID))
	switch {
	case d.loading:
		head += " " + spin
	case d.err != nil:
		head += " " + ErrorStyle.Render(api.Message(d.err))
	}
	foot := StatusBarText.Render(fmt.Sprintf("%3.0f%%  ", d.vp.ScrollPercent()*100)) +
		StatusBarKey.Render("y") + StatusBarText.Render(":copy  ") +
		StatusBarKey.Render("r") + StatusBarText.Render(":reload  ") +
		StatusBarKey.Render("esc") + StatusBarText.Render(":back")
	return head + "\n" + d.vp.View() + "\n" + foot
}
