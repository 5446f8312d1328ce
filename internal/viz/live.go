package viz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/integrators"
	"github.com/san-kum/cosmosim/internal/metrics"
	"github.com/san-kum/cosmosim/internal/sim"
)

const (
	chartWidth  = 60
	chartHeight = 16
	// seedDensity is where a zero density starts when tuned upward.
	seedDensity = 1e-29
)

type TickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model replays a simulated trajectory sample by sample. Tuning a density
// reruns the simulation and restarts playback.
type Model struct {
	dyn           dynamo.Tunable
	cfg           sim.Config
	title         string
	fps           int
	result        *sim.Result
	err           error
	shown         int
	running       bool
	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
}

// NewModel runs the simulation once so the first frame has data.
func NewModel(dyn dynamo.Tunable, cfg sim.Config, title string, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	params := dyn.GetParams()
	initialParams := make(map[string]float64, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		initialParams[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := Model{
		dyn:           dyn,
		cfg:           cfg,
		title:         title,
		fps:           fps,
		running:       true,
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
	}
	m.rerun()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick(m.fps)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}
	case TickMsg:
		if m.running && m.result != nil && m.shown < len(m.result.Samples) {
			m.shown++
		}
		return m, tick(m.fps)
	}
	return m, nil
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if val == 0 && factor > 1 {
		val = seedDensity
	}
	if err := m.dyn.SetParam(key, val); err != nil {
		m.err = err
		return
	}
	m.params[key] = val
	m.rerun()
}

func (m *Model) reset() {
	for k, v := range m.initialParams {
		m.params[k] = v
		if err := m.dyn.SetParam(k, v); err != nil {
			logrus.Warnf("live: restoring %s: %v", k, err)
		}
	}
	m.rerun()
}

// rerun simulates with the current densities and restarts playback.
func (m *Model) rerun() {
	s := sim.New(m.dyn, integrators.NewEuler())
	for _, metric := range metrics.Defaults() {
		s.AddMetric(metric)
	}
	m.result, m.err = s.Run(context.Background(), m.cfg)
	m.shown = 0
	if m.err != nil {
		logrus.Debugf("live: run failed: %v", m.err)
	}
}

func (m Model) current() (dynamo.Sample, bool) {
	if m.result == nil || m.shown == 0 {
		return dynamo.Sample{}, false
	}
	return m.result.Samples[m.shown-1], true
}

func (m Model) View() string {
	var chart string
	if m.result != nil && m.shown > 1 {
		as := m.result.ScaleFactors()[:m.shown]
		chart = asciigraph.Plot(as, asciigraph.Height(chartHeight), asciigraph.Width(chartWidth), asciigraph.Caption("scale factor a(t)"))
	} else {
		chart = strings.Repeat("\n", chartHeight)
	}
	chartView := chartStyle.Render(chart)

	var s strings.Builder
	s.WriteString(Header(m.title) + "\n")

	status := "PLAYING"
	if !m.running {
		status = "PAUSED"
	}
	if m.err != nil {
		status = errorStyle.Render("FAILED")
	}
	s.WriteString(status + "\n\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render(wrap(m.err.Error(), 40)) + "\n\n")
	}

	if smp, ok := m.current(); ok {
		s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3g yr", smp.T)) + "\n")
		s.WriteString(labelStyle.Render("Scale factor") + valueStyle.Render(fmt.Sprintf("%.4f", smp.A)) + "\n")
	}
	if m.result != nil {
		progress := float64(m.shown) / float64(len(m.result.Samples))
		s.WriteString(labelStyle.Render("Playback") + ProgressBar(progress, 20) + "\n")
		s.WriteString(labelStyle.Render("Age") + valueStyle.Render(fmt.Sprintf("%.3g yr", m.result.Metrics["age"])) + "\n")
		s.WriteString(labelStyle.Render("Peak a") + valueStyle.Render(fmt.Sprintf("%.4f", m.result.Metrics["peak_scale_factor"])) + "\n")
	}

	s.WriteString("\nDENSITIES (kg/m^3)\n")
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-12s %.3e", k, m.params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nTab:Select ↑↓:Tune"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, chartView, statsView)
}

func wrap(text string, width int) string {
	words := strings.Fields(text)
	var lines []string
	line := ""
	for _, w := range words {
		if line != "" && len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		if line != "" {
			line += " "
		}
		line += w
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
