// Package desktop adapts the form controller to a fyne window: one card per
// category with check widgets, an analyze button, a results table and the
// evidence list.
package desktop

import (
	"context"
	"io"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/goliatone/go-geoidentify/pkg/controller"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/view"
)

// Option configures a Window.
type Option func(*Window)

// WithTranslator overrides the message catalog.
func WithTranslator(t render.Translator) Option {
	return func(w *Window) {
		if t != nil {
			w.translator = t
		}
	}
}

// WithLocale selects the message locale.
func WithLocale(locale string) Option {
	return func(w *Window) {
		if locale != "" {
			w.locale = locale
		}
	}
}

// WithLogger routes controller diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(w *Window) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Window is the desktop presenter. Widgets are only touched on the fyne main
// thread; controller calls run on background goroutines.
type Window struct {
	translator render.Translator
	locale     string
	logger     *log.Logger

	ctx        context.Context
	controller *controller.Controller
	win        fyne.Window

	groups     *fyne.Container
	checks     map[string]*widget.Check
	syncing    bool
	formKey    string
	errorLabel *widget.Label
	analyzeBtn *widget.Button
	reloadBtn  *widget.Button
	table      *widget.Table
	tableData  [][]string
	evidence   *widget.Label
}

var _ controller.Presenter = (*Window)(nil)

// New builds the window and its controller. Call Start to load features.
func New(ctx context.Context, a fyne.App, backend controller.Backend, options ...Option) *Window {
	w := &Window{
		translator: render.NewCatalog(),
		locale:     render.DefaultLocale,
		logger:     log.New(io.Discard, "", 0),
		ctx:        ctx,
		checks:     make(map[string]*widget.Check),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}

	w.controller = controller.New(backend,
		controller.WithPresenter(w),
		controller.WithTranslator(w.translator),
		controller.WithLocale(w.locale),
		controller.WithLogger(w.logger),
	)

	w.win = a.NewWindow(w.msg(render.KeyPageTitle))
	w.build()
	w.win.Resize(fyne.NewSize(1024, 720))
	return w
}

// Controller exposes the underlying controller.
func (w *Window) Controller() *controller.Controller {
	return w.controller
}

// Window exposes the fyne window.
func (w *Window) Window() fyne.Window {
	return w.win
}

// Start loads features in the background.
func (w *Window) Start() {
	go w.load()
}

// ShowAndRun starts loading and blocks on the fyne event loop.
func (w *Window) ShowAndRun() {
	w.Start()
	w.win.ShowAndRun()
}

// Present implements controller.Presenter.
func (w *Window) Present(_ context.Context, page view.Page) error {
	fyne.Do(func() {
		w.apply(page)
	})
	return nil
}

func (w *Window) load() {
	if err := w.controller.LoadFeatures(w.ctx); err != nil {
		w.logger.Printf("desktop: load features: %v", err)
	}
}

func (w *Window) analyze() {
	if err := w.controller.Analyze(w.ctx); err != nil {
		w.logger.Printf("desktop: analyze: %v", err)
	}
}

func (w *Window) build() {
	w.groups = container.NewVBox()
	w.errorLabel = widget.NewLabel("")
	w.errorLabel.Importance = widget.DangerImportance
	w.errorLabel.Wrapping = fyne.TextWrapWord

	w.analyzeBtn = widget.NewButtonWithIcon(w.msg(render.KeyActionAnalyze), theme.SearchIcon(), func() {
		go w.analyze()
	})
	w.analyzeBtn.Importance = widget.HighImportance
	w.reloadBtn = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		go w.load()
	})

	w.table = widget.NewTable(
		func() (int, int) {
			if len(w.tableData) == 0 {
				return 0, 0
			}
			return len(w.tableData), len(w.tableData[0])
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			if id.Row >= len(w.tableData) || id.Col >= len(w.tableData[id.Row]) {
				return
			}
			label := obj.(*widget.Label)
			label.SetText(w.tableData[id.Row][id.Col])
			if id.Row == 0 {
				label.TextStyle = fyne.TextStyle{Bold: true}
			} else {
				label.TextStyle = fyne.TextStyle{}
			}
		},
	)
	w.table.SetColumnWidth(0, 220)
	w.table.SetColumnWidth(1, 160)
	w.table.SetColumnWidth(2, 140)

	w.evidence = widget.NewLabel("")
	w.evidence.Wrapping = fyne.TextWrapWord

	left := container.NewBorder(
		widget.NewLabelWithStyle(w.msg(render.KeyPageFeatures), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewVBox(container.NewHBox(w.analyzeBtn, w.reloadBtn), w.errorLabel),
		nil, nil,
		container.NewVScroll(w.groups),
	)
	right := container.NewVSplit(
		container.NewBorder(
			widget.NewLabelWithStyle(w.msg(render.KeyPageResults), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			nil, nil, nil, w.table,
		),
		container.NewBorder(
			widget.NewLabelWithStyle(w.msg(render.KeyPageEvidence), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			nil, nil, nil, container.NewVScroll(w.evidence),
		),
	)
	split := container.NewHSplit(left, right)
	split.Offset = 0.4
	w.win.SetContent(split)
}

// apply mirrors page onto the widgets. Main thread only.
func (w *Window) apply(page view.Page) {
	if key := formKey(page.Form); key != w.formKey {
		w.rebuildGroups(page.Form)
		w.formKey = key
	} else {
		w.syncChecks()
	}

	w.errorLabel.SetText(page.Error)

	w.analyzeBtn.SetText(page.Trigger.Label)
	if page.Trigger.Disabled {
		w.analyzeBtn.Disable()
	} else {
		w.analyzeBtn.Enable()
	}
	if page.State == controller.StateLoadingFeatures.String() {
		w.reloadBtn.Disable()
	} else {
		w.reloadBtn.Enable()
	}

	w.tableData = nil
	w.evidence.SetText("")
	if page.Results != nil {
		w.tableData = append(w.tableData, page.Results.Table.Headers)
		for _, row := range page.Results.Table.Rows {
			w.tableData = append(w.tableData, []string{row.Country, row.Probability, row.Score})
		}
		lines := make([]string, 0, len(page.Results.Evidence))
		for _, item := range page.Results.Evidence {
			lines = append(lines, "• "+item.Text)
		}
		w.evidence.SetText(strings.Join(lines, "\n"))
	}
	w.table.Refresh()
}

// syncChecks aligns the widgets with the controller's current selection. A
// queued page may predate ticks made since, so its Checked flags are not used.
func (w *Window) syncChecks() {
	selected := make(map[string]bool)
	for _, id := range w.controller.CollectSelection() {
		selected[id] = true
	}
	w.syncing = true
	defer func() { w.syncing = false }()
	for id, check := range w.checks {
		if check.Checked != selected[id] {
			check.SetChecked(selected[id])
		}
	}
}

func (w *Window) rebuildGroups(form view.Form) {
	w.groups.RemoveAll()
	w.checks = make(map[string]*widget.Check, form.CheckboxCount())
	for _, group := range form.Groups {
		items := container.NewVBox()
		for _, box := range group.Checkboxes {
			id := box.ID
			check := widget.NewCheck(box.Label, nil)
			check.SetChecked(box.Checked)
			check.OnChanged = func(checked bool) {
				if w.syncing {
					return
				}
				if checked {
					w.controller.Check(id)
				} else {
					w.controller.Uncheck(id)
				}
			}
			w.checks[id] = check
			items.Add(check)
		}
		w.groups.Add(widget.NewCard(group.Name, "", items))
	}
	w.groups.Refresh()
}

// formKey identifies the taxonomy behind a form so a reload rebuilds the
// widgets while check toggles do not.
func formKey(form view.Form) string {
	var b strings.Builder
	for _, group := range form.Groups {
		b.WriteString(group.Name)
		b.WriteByte(0)
		for _, box := range group.Checkboxes {
			b.WriteString(box.ID)
			b.WriteByte(1)
			b.WriteString(box.Label)
			b.WriteByte(1)
		}
	}
	return b.String()
}

func (w *Window) msg(key string) string {
	return render.Text(w.translator, w.locale, key)
}
