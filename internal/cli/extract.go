package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/extract"
	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/render"
)

type extractOpts struct {
	file    string
	save    string
	noCache bool
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Extract entities and their graph from text",
		Long: `Send text to the extraction service and print the entities it found
together with graph statistics. Text comes from the argument, from --file, or
from stdin when the argument is "-".`,
		Example: `  entigraph extract "Elon Musk founded SpaceX in California."
  entigraph extract --file article.txt --save article.json
  cat article.txt | entigraph extract -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args, opts.file)
			if err != nil {
				return err
			}
			return c.runExtract(cmd.Context(), text, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read text from file")
	cmd.Flags().StringVarP(&opts.save, "save", "s", "", "write the raw response JSON to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

// readInput picks the text from the argument, a file, or stdin for "-".
func readInput(stdin io.Reader, args []string, file string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New(errors.ErrCodeInvalidInput, "pass text or --file, not both")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", file)
		}
		return string(data), nil
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "no text given")
}

func (c *CLI) runExtract(ctx context.Context, text string, opts extractOpts) error {
	if err := extract.ValidateText(text); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	ex := c.newExtractor(cfg, store)
	c.Logger.Debug("extracting", "endpoint", cfg.Extraction.URL, "chars", len(text))

	spinner := newSpinnerWithContext(ctx, "Extracting entities...")
	spinner.Start()
	prog := newProgress(c.Logger)
	resp, err := ex.Extract(ctx, text)
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.Stop()
	prog.done("Extraction finished")

	if opts.save != "" {
		if err := graph.WriteResponseFile(resp, opts.save); err != nil {
			return err
		}
	}

	printNewline()
	printEntities(resp.EntityGroups())

	if resp.IsEmpty() {
		printWarning("No entities found")
		return nil
	}
	m, err := graph.LoadResponse(resp)
	if err != nil {
		return err
	}
	report := m.Report()
	printSuccess("Graph ready")
	printStats(m.Len(), m.EdgeCount(), len(report.DroppedEdges))
	if opts.save != "" {
		printFile(opts.save)
		printNextStep("Explore it", "entigraph explore "+opts.save)
	}
	return nil
}

// printEntities renders the entity groups as a table.
func printEntities(groups []graph.EntityGroup) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintln(stdout, entityTable(groups))
	printNewline()
}

func entityTable(groups []graph.EntityGroup) string {
	rows := make([][]string, len(groups))
	for i, g := range groups {
		rows[i] = []string{g.Type, fmt.Sprint(len(g.Entities)), strings.Join(g.Entities, ", ")}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("TYPE", "COUNT", "ENTITIES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Bold(true).Foreground(colorGray)
			case col == 0:
				t, _ := graph.ParseEntityType(groups[row].Type)
				return s.Foreground(typeColor(t))
			case col == 1:
				return s.Inherit(StyleNumber)
			}
			return s
		}).
		String()
}

// typeColor maps the palette color of t to a terminal color.
func typeColor(t graph.EntityType) lipgloss.Color {
	return lipgloss.Color(render.BaseColor(t).Hex())
}
