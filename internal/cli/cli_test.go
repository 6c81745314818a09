package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/entigraph/pkg/engine"
	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/graph/graphtest"
	"github.com/matzehuels/entigraph/pkg/render"
)

func intPtr(i int) *int { return &i }

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in   string
		want engine.Event
	}{
		{"show_all", engine.Button(engine.KindShowAll)},
		{"hide_all", engine.Button(engine.KindHideAll)},
		{"connected_only", engine.Button(engine.KindConnectedOnly)},
		{"reset_view", engine.Button(engine.KindResetView)},
		{"double_click", engine.Button(engine.KindDoubleClick)},
		{"type_toggle:gpe:off", engine.TypeToggle(graph.GPE, false)},
		{"type_toggle:PERSON:on", engine.TypeToggle(graph.Person, true)},
		{"node_toggle:Tesla:false", engine.NodeToggle("Tesla", false)},
		{"node_toggle:Acme: Inc:hide", engine.NodeToggle("Acme: Inc", false)},
		{"click:Elon Musk", engine.ClickNode("Elon Musk")},
		{"click_at:edge:2", engine.Event{Kind: engine.KindClick, Trace: engine.TraceEdge, Index: intPtr(2)}},
		{"click_at:node:0", engine.Event{Kind: engine.KindClick, Trace: engine.TraceNode, Index: intPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseEvent(tt.in)
			if err != nil {
				t.Fatalf("parseEvent(%q) error: %v", tt.in, err)
			}
			if got.Kind != tt.want.Kind || got.Type != tt.want.Type || got.Node != tt.want.Node ||
				got.Checked != tt.want.Checked || got.Trace != tt.want.Trace {
				t.Errorf("parseEvent(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if (got.Index == nil) != (tt.want.Index == nil) || (got.Index != nil && *got.Index != *tt.want.Index) {
				t.Errorf("parseEvent(%q) index = %v, want %v", tt.in, got.Index, tt.want.Index)
			}
		})
	}
}

func TestParseEventErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"zoom",
		"show_all:now",
		"type_toggle:PLANET:on",
		"type_toggle:PERSON",
		"node_toggle:Tesla:maybe",
		"click",
		"click_at:node",
		"click_at:node:-1",
		"click_at:legend:0",
	} {
		_, err := parseEvent(in)
		if !errors.Is(err, errors.ErrCodeInvalidEvent) {
			t.Errorf("parseEvent(%q) error = %v, want INVALID_EVENT", in, err)
		}
	}
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "article.txt")
	if err := os.WriteFile(file, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		file    string
		want    string
		wantErr bool
	}{
		{"argument", []string{"from arg"}, "", "from arg", false},
		{"file", nil, file, "from file", false},
		{"stdin", []string{"-"}, "", "from stdin", false},
		{"both", []string{"x"}, file, "", true},
		{"none", nil, "", "", true},
		{"missing file", nil, filepath.Join(dir, "nope"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(strings.NewReader("from stdin"), tt.args, tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("readInput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRootCommand(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	sort.Strings(names)

	for _, want := range []string{"cache", "completion", "config", "explore", "extract", "project", "serve"} {
		if i := sort.SearchStrings(names, want); i >= len(names) || names[i] != want {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.json")
	if err := graph.WriteResponseFile(graphtest.SampleResponse(), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProjectCommand(t *testing.T) {
	in := writeSample(t)
	out := filepath.Join(t.TempDir(), "frame.json")

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"project", in, "-e", "type_toggle:GPE:off", "-e", "click:Elon Musk", "-o", out})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("project: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var f struct {
		Focal  string `json:"focal"`
		Points []struct {
			ID      string `json:"id"`
			Visible bool   `json:"visible"`
		} `json:"points"`
		EdgeLines []render.Segment `json:"edgeLines"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if f.Focal != "Elon Musk" {
		t.Errorf("Focal = %q, want Elon Musk", f.Focal)
	}
	for _, p := range f.Points {
		if p.ID == "California" && p.Visible {
			t.Error("California should be hidden")
		}
	}
	if len(f.EdgeLines) != 2 {
		t.Errorf("len(EdgeLines) = %d, want 2", len(f.EdgeLines))
	}
}

func TestProjectCommandErrors(t *testing.T) {
	in := writeSample(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown format", []string{"project", in, "-F", "gif"}, errors.ErrCodeInvalidFormat},
		{"binary to stdout", []string{"project", in, "-F", "png"}, errors.ErrCodeInvalidInput},
		{"bad event", []string{"project", in, "-e", "zoom"}, errors.ErrCodeInvalidEvent},
		{"unknown node", []string{"project", in, "-e", "click:Mars"}, errors.ErrCodeUnknownNode},
		{"missing file", []string{"project", filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			root.SetArgs(tt.args)
			root.SetErr(&bytes.Buffer{})
			err := root.ExecuteContext(context.Background())
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		root := New(&bytes.Buffer{}, LogInfo).RootCommand()
		root.SetOut(&out)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(append([]string{"--config", path}, args...))
		err := root.ExecuteContext(context.Background())
		return out.String(), err
	}

	if _, err := run("config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := run("config", "init"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second init error = %v, want INVALID_INPUT", err)
	}
	if _, err := run("config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err := run("config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "[extraction]") {
		t.Errorf("config show output missing [extraction]:\n%s", out)
	}
}

// =============================================================================
// Explore model
// =============================================================================

func newSampleExplore(t *testing.T) ExploreModel {
	t.Helper()
	eng := engine.New(engine.Options{})
	if err := eng.LoadResponse(context.Background(), graphtest.SampleResponse()); err != nil {
		t.Fatal(err)
	}
	return newExploreModel(context.Background(), eng)
}

func press(m ExploreModel, keys ...string) ExploreModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(ExploreModel)
	}
	return m
}

func TestExploreRows(t *testing.T) {
	m := newSampleExplore(t)

	// PERSON, Elon Musk, ORG, SpaceX, Tesla, GPE, California
	if len(m.rows) != 7 {
		t.Fatalf("len(rows) = %d, want 7", len(m.rows))
	}
	if m.rows[0].node != "" || m.rows[0].typ != graph.Person || m.rows[0].count != 1 {
		t.Errorf("first row = %+v, want PERSON type row", m.rows[0])
	}
	if m.rows[4].node != "Tesla" || !m.rows[4].checked {
		t.Errorf("row 4 = %+v, want checked Tesla", m.rows[4])
	}
}

func TestExploreToggle(t *testing.T) {
	m := newSampleExplore(t)

	// cursor to the ORG type row and uncheck it
	m = press(m, "down", "down", " ")
	if m.Err != nil {
		t.Fatalf("toggle: %v", m.Err)
	}
	if m.rows[2].checked || m.rows[3].checked || m.rows[4].checked {
		t.Errorf("ORG rows still checked: %+v", m.rows[2:5])
	}
	if got := len(m.view.Frame.EdgeLines); got != 0 {
		t.Errorf("EdgeLines = %d, want 0 with organizations hidden", got)
	}

	m = press(m, "a")
	for _, row := range m.rows {
		if !row.checked {
			t.Errorf("row %+v unchecked after show all", row)
		}
	}

	m = press(m, "n")
	for _, row := range m.rows {
		if row.checked {
			t.Errorf("row %+v checked after hide all", row)
		}
	}
}

func TestExploreHighlight(t *testing.T) {
	m := newSampleExplore(t)

	m = press(m, "down", "enter")
	if m.view.Frame.Focal != "Elon Musk" {
		t.Fatalf("Focal = %q, want Elon Musk", m.view.Frame.Focal)
	}
	if !strings.Contains(m.View(), "focus Elon Musk") {
		t.Error("View() should name the focal node")
	}

	m = press(m, "esc")
	if m.view.Frame.Focal != "" {
		t.Errorf("Focal = %q after esc, want none", m.view.Frame.Focal)
	}

	// enter on a type row does nothing
	m = press(m, "k", "enter")
	if m.Cursor != 0 || m.view.Frame.Focal != "" {
		t.Errorf("enter on type row: cursor %d, focal %q", m.Cursor, m.view.Frame.Focal)
	}
}

func TestExploreQuit(t *testing.T) {
	m := newSampleExplore(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
