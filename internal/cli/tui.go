package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polypack/pkg/catalogue"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

var browseShapeStyle = lipgloss.NewStyle().
	Foreground(colorCyan).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDim).
	Padding(0, 2)

// =============================================================================
// BrowseModel - Interactive catalogue browser
// =============================================================================

// BrowseModel is the bubbletea model for paging through a catalogue:
// up/down changes the size, left/right the shape within the size.
type BrowseModel struct {
	Classes []catalogue.SizeClass
	Class   int // index into Classes
	Shape   int // index into Classes[Class].Shapes
}

// NewBrowseModel creates a browser positioned on the first non-empty class.
func NewBrowseModel(cat *catalogue.Catalogue) BrowseModel {
	m := BrowseModel{Classes: cat.Classes}
	for i, c := range m.Classes {
		if len(c.Shapes) > 0 {
			m.Class = i
			break
		}
	}
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Class > 0 {
			m.Class--
			m.Shape = 0
		}
	case "down", "j":
		if m.Class < len(m.Classes)-1 {
			m.Class++
			m.Shape = 0
		}
	case "left", "h":
		if m.Shape > 0 {
			m.Shape--
		}
	case "right", "l":
		if m.Shape < len(m.current())-1 {
			m.Shape++
		}
	case "home", "g":
		m.Shape = 0
	case "end", "G":
		m.Shape = max(0, len(m.current())-1)
	}
	return m, nil
}

func (m BrowseModel) current() []polyomino.Shape {
	if m.Class >= len(m.Classes) {
		return nil
	}
	return m.Classes[m.Class].Shapes
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Polyomino Catalogue"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ size  ←/→ shape  g/G first/last  q quit"))
	b.WriteString("\n\n")

	shapes := m.current()
	if len(shapes) == 0 {
		b.WriteString(StyleWarning.Render("no shapes"))
		b.WriteString("\n")
		return b.String()
	}

	size := m.Classes[m.Class].Size
	s := shapes[m.Shape]
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		listDimStyle.Render("size"), StyleNumber.Render(fmt.Sprint(size)),
		listDimStyle.Render("shape"), StyleNumber.Render(fmt.Sprintf("%d/%d", m.Shape+1, len(shapes)))))
	b.WriteString(browseShapeStyle.Render(s.String()))
	b.WriteString("\n")

	holes := "none"
	if enclosed := polyomino.EnclosedCells(s); len(enclosed) > 0 {
		holes = fmt.Sprintf("%d cells", len(enclosed))
	}
	details := [][2]string{
		{"bounds", fmt.Sprintf("%d×%d", s.Width(), s.Height())},
		{"orientations", fmt.Sprint(orientations(s))},
		{"border", fmt.Sprintf("%d cells", len(polyomino.BorderNeighbors(s)))},
		{"holes", holes},
	}
	for _, d := range details {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %-13s", d[0])))
		b.WriteString(StyleValue.Render(d[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// orientations counts the distinct fixed polyominoes in the class of s.
func orientations(s polyomino.Shape) int {
	seen := make(map[string]struct{}, 8)
	for _, t := range polyomino.Transforms() {
		seen[s.Transform(t).Key()] = struct{}{}
	}
	return len(seen)
}

// =============================================================================
// browse command
// =============================================================================

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags catalogueFlags
		src   catalogueSource
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalogue interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.resolve(cmd, c.cfg.Catalogue, c.Logger)
			cat, err := c.catalogueFrom(cmd.Context(), src, opts, flags.noCache)
			if err != nil {
				return err
			}
			return runBrowse(cmd.Context(), cat)
		},
	}

	flags.register(cmd, browseMaxK)
	src.register(cmd)

	return cmd
}

func runBrowse(ctx context.Context, cat *catalogue.Catalogue) error {
	loggerFromContext(ctx).Debug("starting browser", "max_k", cat.MaxK, "shapes", cat.Total())
	_, err := tea.NewProgram(NewBrowseModel(cat), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
