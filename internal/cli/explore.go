package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/entigraph/pkg/engine"
	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/render"
)

type exploreOpts struct {
	text    string
	file    string
	noCache bool
}

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "explore [response.json]",
		Short: "Explore an entity graph in the terminal",
		Long: `Open an interactive view of an entity graph. The graph comes from a saved
response file, or from the extraction service with --text or --file.

Keys:
  ↑/↓ j/k   move          space  toggle checkbox
  enter     highlight     esc    clear highlight
  a         show all      n      hide all
  c         connected     r      reset view
  q         quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "extract this text instead of loading a file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "extract the text in this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, args []string, opts exploreOpts) error {
	eng, err := c.exploreEngine(ctx, args, opts)
	if err != nil {
		return err
	}
	if eng.View().Empty {
		printWarning("No entities found")
		return nil
	}

	_, err = tea.NewProgram(newExploreModel(ctx, eng), tea.WithContext(ctx)).Run()
	return err
}

// exploreEngine loads the graph from a response file or by extraction.
func (c *CLI) exploreEngine(ctx context.Context, args []string, opts exploreOpts) (*engine.Engine, error) {
	if len(args) == 1 {
		if opts.text != "" || opts.file != "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "pass a response file or --text/--file, not both")
		}
		resp, err := graph.ReadResponseFile(args[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", args[0])
		}
		eng := engine.New(engine.Options{Logger: c.Logger})
		return eng, eng.LoadResponse(ctx, resp)
	}

	var inputArgs []string
	if opts.text != "" {
		inputArgs = []string{opts.text}
	}
	text, err := readInput(os.Stdin, inputArgs, opts.file)
	if err != nil {
		return nil, err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	eng := engine.New(engine.Options{Extractor: c.newExtractor(cfg, store), Logger: c.Logger})
	spinner := newSpinnerWithContext(ctx, "Extracting entities...")
	spinner.Start()
	if _, err := eng.Submit(ctx, text); err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return nil, err
	}
	spinner.Stop()
	return eng, nil
}

// =============================================================================
// ExploreModel - Interactive graph view
// =============================================================================

var (
	exploreCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	explorePanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	exploreErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// exploreRow is one line of the checkbox tree: a type row when node is empty.
type exploreRow struct {
	typ     graph.EntityType
	node    string
	checked bool
	count   int
}

// ExploreModel is the bubbletea model driving an engine from the keyboard.
type ExploreModel struct {
	ctx    context.Context
	ctrl   engine.Controller
	view   engine.View
	rows   []exploreRow
	Cursor int
	Err    error
}

func newExploreModel(ctx context.Context, ctrl engine.Controller) ExploreModel {
	m := ExploreModel{ctx: ctx, ctrl: ctrl}
	m.refresh(ctrl.View())
	return m
}

func (m *ExploreModel) refresh(v engine.View) {
	m.view = v
	m.rows = nil
	for _, g := range v.Tree {
		m.rows = append(m.rows, exploreRow{typ: g.Type, checked: g.Checked, count: g.Count})
		for _, n := range g.Nodes {
			m.rows = append(m.rows, exploreRow{typ: g.Type, node: n.ID, checked: n.Checked})
		}
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m ExploreModel) dispatch(ev engine.Event) ExploreModel {
	v, err := m.ctrl.Dispatch(m.ctx, ev)
	m.Err = err
	if err == nil {
		m.refresh(v)
	}
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.rows)-1 {
			m.Cursor++
		}
	case " ":
		if len(m.rows) == 0 {
			return m, nil
		}
		row := m.rows[m.Cursor]
		if row.node == "" {
			return m.dispatch(engine.TypeToggle(row.typ, !row.checked)), nil
		}
		return m.dispatch(engine.NodeToggle(row.node, !row.checked)), nil
	case "enter":
		if len(m.rows) > 0 && m.rows[m.Cursor].node != "" {
			return m.dispatch(engine.ClickNode(m.rows[m.Cursor].node)), nil
		}
	case "esc":
		return m.dispatch(engine.Button(engine.KindDoubleClick)), nil
	case "a":
		return m.dispatch(engine.Button(engine.KindShowAll)), nil
	case "n":
		return m.dispatch(engine.Button(engine.KindHideAll)), nil
	case "c":
		return m.dispatch(engine.Button(engine.KindConnectedOnly)), nil
	case "r":
		return m.dispatch(engine.Button(engine.KindResetView)), nil
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Entity Graph"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space toggle  ⏎ highlight  esc clear  a all  n none  c connected  r reset  q quit"))
	b.WriteString("\n\n")

	left := explorePanelStyle.Render(m.treeView())
	right := lipgloss.JoinVertical(lipgloss.Left,
		explorePanelStyle.Render(legendView()),
		explorePanelStyle.Render(m.edgeView()),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(exploreErrorStyle.Render(iconError + " " + errors.UserMessage(m.Err)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ExploreModel) treeView() string {
	var b strings.Builder
	for i, row := range m.rows {
		cursor := "  "
		if i == m.Cursor {
			cursor = exploreCursorStyle.Render("▸ ")
		}
		box := "☐"
		if row.checked {
			box = "☑"
		}

		var line string
		if row.node == "" {
			style := lipgloss.NewStyle().Bold(true).Foreground(typeColor(row.typ))
			line = style.Render(fmt.Sprintf("%s %s", box, row.typ)) + StyleDim.Render(fmt.Sprintf(" (%d)", row.count))
		} else {
			line = "   " + m.nodeStyle(row).Render(box+" "+row.node)
		}
		b.WriteString(cursor + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// nodeStyle mirrors the frame: base color, dim outside the highlight, gray when hidden.
func (m ExploreModel) nodeStyle(row exploreRow) lipgloss.Style {
	i := m.view.Frame.PointIndex(row.node)
	if i < 0 {
		return StyleDim
	}
	p := m.view.Frame.Points[i]
	switch {
	case !p.Visible:
		return StyleDim.Strikethrough(true)
	case p.Dimmed:
		return StyleDim
	case p.ID == m.view.Frame.Focal:
		return lipgloss.NewStyle().Bold(true).Underline(true).Foreground(typeColor(p.Type))
	}
	return lipgloss.NewStyle().Foreground(typeColor(p.Type))
}

func legendView() string {
	var b strings.Builder
	b.WriteString(StyleDim.Render("Legend") + "\n")
	for _, e := range render.Legend() {
		swatch := lipgloss.NewStyle().Foreground(typeColor(e.Type)).Render("●")
		b.WriteString(swatch + " " + e.Label + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m ExploreModel) edgeView() string {
	f := m.view.Frame
	var b strings.Builder
	title := fmt.Sprintf("Edges (%d)", len(f.EdgeLines))
	if f.Focal != "" {
		title += " · focus " + f.Focal
	}
	b.WriteString(StyleDim.Render(title) + "\n")
	for _, s := range f.EdgeLines {
		b.WriteString(fmt.Sprintf("%s %s %s\n", s.Source, StyleDim.Render(iconArrow), s.Target))
	}
	return strings.TrimRight(b.String(), "\n")
}
