// Package listview implements an interactive, read-only viewer over one
// assembled file: its expanded source, its line-record/address table, its
// symbol table, and its diagnostics. It has no execution model — there is
// nothing to step or breakpoint — so unlike a debugger it is purely a
// multi-panel inspector.
package listview

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mini15/mini15asm/pipeline"
)

// Viewer holds the panels making up the listing inspector.
type Viewer struct {
	Outcome *pipeline.Outcome

	App         *tview.Application
	Pages       *tview.Pages
	MainLayout  *tview.Flex
	SourceView  *tview.TextView
	RecordsView *tview.TextView
	SymbolsView *tview.TextView
	OutputView  *tview.TextView
	CommandLine *tview.InputField
}

// New builds a Viewer over one pipeline outcome.
func New(outcome *pipeline.Outcome) *Viewer {
	v := &Viewer{
		Outcome: outcome,
		App:     tview.NewApplication(),
		Pages:   tview.NewPages(),
	}
	v.initializeViews()
	v.buildLayout()
	v.setupKeyBindings()
	v.RefreshAll()
	return v
}

func (v *Viewer) initializeViews() {
	v.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.SourceView.SetBorder(true).SetTitle(" expanded source ")

	v.RecordsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.RecordsView.SetBorder(true).SetTitle(" line records ")

	v.SymbolsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.SymbolsView.SetBorder(true).SetTitle(" symbol table ")

	v.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.OutputView.SetBorder(true).SetTitle(" diagnostics ")

	v.CommandLine = tview.NewInputField().SetLabel(": ")
	v.CommandLine.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			v.executeCommand(v.CommandLine.GetText())
			v.CommandLine.SetText("")
		}
	})
}

func (v *Viewer) buildLayout() {
	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.SourceView, 0, 2, false).
		AddItem(v.RecordsView, 0, 3, false)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.SymbolsView, 0, 1, false).
		AddItem(v.OutputView, 0, 1, false)

	content := tview.NewFlex().
		AddItem(left, 0, 2, false).
		AddItem(right, 0, 1, false)

	v.MainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, false).
		AddItem(v.CommandLine, 1, 0, true)

	v.Pages.AddPage("main", v.MainLayout, true, true)
}

func (v *Viewer) setupKeyBindings() {
	v.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			v.App.Stop()
			return nil
		case tcell.KeyF1:
			v.App.SetFocus(v.CommandLine)
			return nil
		}
		return event
	})
}

// RefreshAll repaints every panel from the current outcome.
func (v *Viewer) RefreshAll() {
	v.SourceView.SetText(tview.Escape(v.Outcome.Expanded))
	v.updateRecordsView()
	v.updateSymbolsView()
	v.updateOutputView()
}

func (v *Viewer) updateRecordsView() {
	var sb strings.Builder
	if v.Outcome.FirstPass != nil {
		for _, rec := range v.Outcome.FirstPass.Records {
			marker := " "
			if rec.Err {
				marker = "[red]*[white]"
			}
			fmt.Fprintf(&sb, "%s %04d  w=%d  %-6s %s\n", marker, rec.Address, rec.Width, rec.Kind, rec.Label)
		}
	}
	v.RecordsView.SetText(sb.String())
}

func (v *Viewer) updateSymbolsView() {
	var sb strings.Builder
	if v.Outcome.FirstPass != nil {
		for _, sym := range v.Outcome.FirstPass.Symbols.All() {
			flags := ""
			if sym.IsEntry {
				flags += " entry"
			}
			if sym.IsExtern {
				flags += " extern"
			}
			fmt.Fprintf(&sb, "%-30s %04d%s\n", sym.Name, sym.Address, flags)
		}
	}
	v.SymbolsView.SetText(sb.String())
}

func (v *Viewer) updateOutputView() {
	var sb strings.Builder
	for _, e := range v.Outcome.Diagnostics.Errors {
		fmt.Fprintln(&sb, e.Error())
	}
	v.Outcome.Diagnostics.PrintWarnings(func(s string) { fmt.Fprintln(&sb, s) })
	if sb.Len() == 0 {
		sb.WriteString("no diagnostics")
	}
	v.OutputView.SetText(sb.String())
}

func (v *Viewer) executeCommand(cmd string) {
	cmd = strings.TrimSpace(cmd)
	switch {
	case cmd == "q" || cmd == "quit":
		v.App.Stop()
	case strings.HasPrefix(cmd, "find "):
		name := strings.TrimPrefix(cmd, "find ")
		if sym, ok := v.Outcome.FirstPass.Symbols.Get(name); ok {
			fmt.Fprintf(v.OutputView, "\n%s -> %04d\n", name, sym.Address)
		} else {
			fmt.Fprintf(v.OutputView, "\n%s: not found\n", name)
		}
	}
}

// Run opens the viewer full-screen and blocks until the user quits.
func Run(outcome *pipeline.Outcome) error {
	v := New(outcome)
	return v.App.SetRoot(v.Pages, true).EnableMouse(true).Run()
}
