package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/entigraph/internal/formats"
	"github.com/matzehuels/entigraph/pkg/engine"
	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/render/nodelink"
)

type projectOpts struct {
	events []string
	format string
	output string
	width  float64
	height float64
}

// projectCommand creates the project command.
func (c *CLI) projectCommand() *cobra.Command {
	opts := projectOpts{format: "json"}

	cmd := &cobra.Command{
		Use:   "project <response.json>",
		Short: "Replay events against a saved response and write the frame",
		Long: `Load a saved extraction response, apply events in order, and write the
resulting frame.

Events:
  type_toggle:<TYPE>:<on|off>    check or uncheck an entity type
  node_toggle:<id>:<on|off>      check or uncheck one node
  show_all | hide_all | connected_only | reset_view
  click:<id>                     click a node
  click_at:<node|edge>:<index>   click the index-th point of a trace
  double_click                   clear the highlight`,
		Example: `  entigraph project graph.json --event type_toggle:GPE:off --event click:Tesla
  entigraph project graph.json -e connected_only -F svg -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProject(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.events, "event", "e", nil, "event to apply (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "F", opts.format, "output format: json, plotly, dot, svg, pdf, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width in inches for graphviz formats")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height in inches for graphviz formats")

	return cmd
}

func (c *CLI) runProject(ctx context.Context, path string, opts projectOpts) error {
	adapter, err := formats.Registry(nodelink.Options{Width: opts.width, Height: opts.height}).Get(opts.format)
	if err != nil {
		return err
	}
	if formats.Binary[opts.format] && opts.output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s output needs --output", opts.format)
	}

	events := make([]engine.Event, len(opts.events))
	for i, s := range opts.events {
		if events[i], err = parseEvent(s); err != nil {
			return err
		}
	}

	resp, err := graph.ReadResponseFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	eng := engine.New(engine.Options{Logger: c.Logger})
	if err := eng.LoadResponse(ctx, resp); err != nil {
		return err
	}
	for i, ev := range events {
		if _, err := eng.Dispatch(ctx, ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, opts.events[i], err)
		}
		c.Logger.Debug("applied event", "kind", ev.Kind, "visible", len(eng.VisibleNodes()))
	}

	data, err := adapter.Render(ctx, eng.Frame())
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote %s frame", adapter.Format())
	printFile(opts.output)
	return nil
}

// parseEvent parses the --event syntax listed in the project help text.
func parseEvent(s string) (engine.Event, error) {
	kind, rest, _ := strings.Cut(s, ":")
	bad := func(format string, args ...any) (engine.Event, error) {
		return engine.Event{}, errors.New(errors.ErrCodeInvalidEvent, "event %q: "+format, append([]any{s}, args...)...)
	}

	switch engine.Kind(kind) {
	case engine.KindShowAll, engine.KindHideAll, engine.KindConnectedOnly, engine.KindResetView, engine.KindDoubleClick:
		if rest != "" {
			return bad("takes no argument")
		}
		return engine.Button(engine.Kind(kind)), nil

	case engine.KindTypeToggle, engine.KindNodeToggle:
		i := strings.LastIndex(rest, ":")
		if i <= 0 {
			return bad("want %s:<target>:<on|off>", kind)
		}
		checked, err := parseSwitch(rest[i+1:])
		if err != nil {
			return bad("%v", err)
		}
		target := rest[:i]
		if engine.Kind(kind) == engine.KindNodeToggle {
			return engine.NodeToggle(target, checked), nil
		}
		t, ok := graph.ParseEntityType(target)
		if !ok {
			return bad("unknown entity type %q", target)
		}
		return engine.TypeToggle(t, checked), nil

	case engine.KindClick:
		if rest == "" {
			return bad("want click:<id>")
		}
		return engine.ClickNode(rest), nil
	}

	if kind == "click_at" {
		trace, idx, ok := strings.Cut(rest, ":")
		if !ok {
			return bad("want click_at:<node|edge>:<index>")
		}
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			return bad("index must be a non-negative integer")
		}
		switch engine.Trace(trace) {
		case engine.TraceNode, engine.TraceEdge:
			return engine.ClickAt(engine.Trace(trace), n), nil
		}
		return bad("unknown trace %q", trace)
	}
	return bad("unknown kind %q", kind)
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "show":
		return true, nil
	case "off", "hide":
		return false, nil
	}
	return strconv.ParseBool(s)
}
