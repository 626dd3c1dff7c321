package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/tetris"
)

var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "Print the shape catalog with all rotations",
	Long:  `Shows every shape in its spawn orientation followed by its clockwise rotations.`,
	Args:  cobra.NoArgs,
	Run:   runShapes,
}

var shapeStyles = map[rune]lipgloss.Style{
	'I': lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	'O': lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	'T': lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	'S': lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	'Z': lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	'J': lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	'L': lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

var (
	shapeTitleStyle = lipgloss.NewStyle().Bold(true)
	emptyCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func runShapes(_ *cobra.Command, _ []string) {
	for _, shape := range tetris.Catalog() {
		fmt.Println(shapeTitleStyle.Render(string(shape.Name)))

		// Four orientations side by side
		grids := make([]string, 4)
		for i := range grids {
			grids[i] = renderMask(shape)
			shape.RotateClockwise()
		}
		fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top, grids...))
		fmt.Println()
	}
}

// renderMask draws one orientation with two columns per cell.
func renderMask(s tetris.Shape) string {
	style, ok := shapeStyles[s.Name]
	if !ok {
		style = lipgloss.NewStyle()
	}
	var b strings.Builder
	for i := 0; i < tetris.ShapeSize; i++ {
		b.WriteString("  ")
		for j := 0; j < tetris.ShapeSize; j++ {
			if s.Mask[i][j] {
				b.WriteString(style.Render("██"))
			} else {
				b.WriteString(emptyCellStyle.Render("··"))
			}
		}
		if i < tetris.ShapeSize-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
