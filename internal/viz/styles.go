package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette of the live view and SVG snapshots. Particle colors
// run from Cool to Hot with disk temperature.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Hot        lipgloss.Color
	Cool       lipgloss.Color
	Horizon    lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
}

var (
	ThemeAccretion = Theme{
		Name:       "accretion",
		Primary:    lipgloss.Color("#ffaa33"),
		Hot:        lipgloss.Color("#ffffaa"),
		Cool:       lipgloss.Color("#ff4400"),
		Horizon:    lipgloss.Color("#aa44ff"),
		Background: lipgloss.Color("#05050a"),
		Text:       lipgloss.Color("#f0f0f0"),
		Muted:      lipgloss.Color("#666688"),
		Warning:    lipgloss.Color("#ff4444"),
	}

	ThemeCold = Theme{
		Name:       "cold",
		Primary:    lipgloss.Color("#00ccff"),
		Hot:        lipgloss.Color("#e0f8ff"),
		Cool:       lipgloss.Color("#0044aa"),
		Horizon:    lipgloss.Color("#8888ff"),
		Background: lipgloss.Color("#000814"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Warning:    lipgloss.Color("#ffcc00"),
	}

	ThemeMono = Theme{
		Name:       "mono",
		Primary:    lipgloss.Color("#ffffff"),
		Hot:        lipgloss.Color("#ffffff"),
		Cool:       lipgloss.Color("#777777"),
		Horizon:    lipgloss.Color("#aaaaaa"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Warning:    lipgloss.Color("#ffaa00"),
	}

	CurrentTheme = ThemeAccretion

	Themes = []Theme{ThemeAccretion, ThemeCold, ThemeMono}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeAccretion
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(CurrentTheme.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(CurrentTheme.Muted)
}

func canvasStyle() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1)
}

func statsStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, false, false, true).
		BorderForeground(CurrentTheme.Muted).
		Padding(0, 2).
		Width(40)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(12)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true)
}

func graphStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary)
}

func helpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Italic(true).MarginTop(1)
}

func warnStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Bold(true)
}

// TemperatureColor interpolates the theme from Cool at 0 to Hot at 1.
func TemperatureColor(t float64) string {
	t = min(1, max(0, t))
	sr, sg, sb := parseHex(string(CurrentTheme.Cool))
	er, eg, eb := parseHex(string(CurrentTheme.Hot))
	return hexColor(
		int(float64(sr)+t*float64(er-sr)),
		int(float64(sg)+t*float64(eg-sg)),
		int(float64(sb)+t*float64(eb-sb)),
	)
}

// ProgressBar renders a bar filled to percent, colored from Cool to Hot.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = min(width, max(0, filled))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(TemperatureColor(percent))).Render(bar)
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = min(255, max(0, v))
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
