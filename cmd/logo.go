package cmd

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const logoRaw = `
██████╗ ███████╗██████╗ ██╗      ██████╗ ██╗   ██╗
██╔══██╗██╔════╝██╔══██╗██║     ██╔═══██╗╚██╗ ██╔╝
██║  ██║█████╗  ██████╔╝██║     ██║   ██║ ╚████╔╝
██║  ██║██╔══╝  ██╔═══╝ ██║     ██║   ██║  ╚██╔╝
██████╔╝███████╗██║     ███████╗╚██████╔╝   ██║
╚═════╝ ╚══════╝╚═╝     ╚══════╝ ╚═════╝    ╚═╝
`

var (
	gradientStart = "#7f5af0" // violet
	gradientEnd   = "#2cb67d" // green
)

// renderLogo colours each column of logoRaw along a left-to-right gradient
func renderLogo() string {
	lines := strings.Split(strings.Trim(logoRaw, "\n"), "\n")

	maxWidth := 1
	for _, line := range lines {
		if w := utf8.RuneCountInString(line); w > maxWidth {
			maxWidth = w
		}
	}

	startColor, _ := colorful.Hex(gradientStart)
	endColor, _ := colorful.Hex(gradientEnd)

	var result strings.Builder
	for _, line := range lines {
		for col, char := range []rune(line) {
			if char == ' ' {
				result.WriteRune(char)
				continue
			}
			c := startColor.BlendLuv(endColor, float64(col)/float64(maxWidth))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
			result.WriteString(style.Render(string(char)))
		}
		result.WriteString("\n")
	}

	return result.String()
}

// logo is the banner printed by the version command
var logo = renderLogo()
