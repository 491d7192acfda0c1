package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/matchbench/pkg/bench"
)

const (
	barWidth       = 40
	summaryVisible = 8 // edge counts shown in the live table
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Messages
// =============================================================================

// trialMsg carries one measured trial from the sweep goroutine.
type trialMsg bench.Record

// sweepDoneMsg ends the program once the sweep has returned.
type sweepDoneMsg struct{ err error }

// =============================================================================
// SweepModel - live benchmark progress
// =============================================================================

// SweepModel is the bubbletea model showing a running sweep: a progress
// bar, the current edge count and a table of the latest per-m summaries.
type SweepModel struct {
	Sweep   bench.Sweep
	Total   int
	Records []bench.Record
	Start   time.Time
	Err     error

	finished   bool
	cancelling bool
	cancel     context.CancelFunc
	now        func() time.Time
}

// NewSweepModel creates the model. cancel is called when the user quits.
func NewSweepModel(sweep bench.Sweep, cancel context.CancelFunc) SweepModel {
	return SweepModel{
		Sweep:  sweep,
		Total:  sweep.TotalTrials(),
		Start:  time.Now(),
		cancel: cancel,
		now:    time.Now,
	}
}

func (m SweepModel) Init() tea.Cmd {
	return nil
}

func (m SweepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case trialMsg:
		m.Records = append(m.Records, bench.Record(msg))
	case sweepDoneMsg:
		m.finished = true
		m.Err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.cancelling && m.cancel != nil {
				m.cancelling = true
				m.cancel()
			}
		}
	}
	return m, nil
}

func (m SweepModel) View() string {
	var b strings.Builder

	s := m.Sweep
	mode := "fixed order"
	if s.Randomized {
		mode = "randomized"
	}
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Sweep %d × %d", s.Left, s.Right)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · seed %d", mode, s.Seed)))
	b.WriteString("\n\n")

	done := len(m.Records)
	b.WriteString(progressBar(done, m.Total, barWidth))
	b.WriteString(" " + StyleNumber.Render(fmt.Sprintf("%d/%d", done, m.Total)))
	if done > 0 {
		last := m.Records[done-1]
		b.WriteString(StyleDim.Render(fmt.Sprintf("  m=%d trial %d/%d", last.M, last.Trial+1, s.Trials)))
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s", m.now().Sub(m.Start).Round(time.Second))))
	b.WriteString("\n")

	if sums := bench.Summarize(m.Records); len(sums) > 0 {
		if len(sums) > summaryVisible {
			sums = sums[len(sums)-summaryVisible:]
		}
		b.WriteString(summaryTable(sums))
		b.WriteString("\n")
	}

	switch {
	case m.finished && m.Err != nil:
		b.WriteString(StyleWarning.Render("stopped: " + m.Err.Error()))
	case m.finished:
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " done")
	case m.cancelling:
		b.WriteString(StyleWarning.Render("stopping after the current trial..."))
	default:
		b.WriteString(StyleDim.Render("q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// progressBar draws a done/total bar of the given width.
func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(width, done*width/total)
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// =============================================================================
// Driver
// =============================================================================

// runSweepTUI runs the sweep while a bubbletea program draws its progress
// on uiOut. fn receives every record before the view does.
func runSweepTUI(ctx context.Context, runner *bench.Runner, sweep bench.Sweep, fn func(bench.Record) error) (*bench.Run, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewSweepModel(sweep, cancel), tea.WithOutput(uiOut))

	var (
		run    *bench.Run
		runErr error
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		run, runErr = runner.Run(ctx, sweep, func(r bench.Record) error {
			if fn != nil {
				if err := fn(r); err != nil {
					return err
				}
			}
			p.Send(trialMsg(r))
			return nil
		})
		p.Send(sweepDoneMsg{err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return run, err
	}
	<-done
	return run, runErr
}
