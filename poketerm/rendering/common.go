package rendering

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/nathanieltooley/pokeduel/poketerm/global"
)

var (
	HighlightedColor = lipgloss.Color("33")
	BlackTextColor   = lipgloss.Color("0")
	DisabledColor    = lipgloss.Color("240")
	ErrorColor       = lipgloss.Color("160")

	ButtonStyle            = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Width(30).Padding(1, 3).Align(lipgloss.Center)
	HighlightedButtonStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder(), true).Width(30).Padding(1, 3).Align(lipgloss.Center).Foreground(HighlightedColor)

	HighlightedItemStyle = lipgloss.NewStyle().PaddingLeft(4).Foreground(HighlightedColor)
	ItemStyle            = lipgloss.NewStyle().PaddingLeft(4)

	PanelStyle            = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
	HighlightedPanelStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder(), true).Padding(0, 1).BorderForeground(HighlightedColor)
	DisabledPanelStyle    = PanelStyle.Foreground(DisabledColor).BorderForeground(DisabledColor)

	ErrorStyle = lipgloss.NewStyle().Border(lipgloss.BlockBorder(), true).BorderForeground(ErrorColor).Padding(1, 2)
)

var statusColors = map[golurk.StatusKind]lipgloss.Color{
	golurk.STATUS_BURN:   lipgloss.Color("#E36D1C"),
	golurk.STATUS_PARA:   lipgloss.Color("#FFD400"),
	golurk.STATUS_POISON: lipgloss.Color("#A61AE5"),
	golurk.STATUS_FROZEN: lipgloss.Color("#31BBCE"),
	golurk.STATUS_SLEEP:  lipgloss.Color("#BCE9EF"),
}

var statusText = map[golurk.StatusKind]string{
	golurk.STATUS_BURN:   "BRN",
	golurk.STATUS_PARA:   "PAR",
	golurk.STATUS_FROZEN: "FRZ",
	golurk.STATUS_POISON: "PSN",
	golurk.STATUS_SLEEP:  "SLP",
}

var typeColors = map[golurk.PokemonType]lipgloss.Color{
	golurk.TYPE_NORMAL:   lipgloss.Color("#A8A77A"),
	golurk.TYPE_FIRE:     lipgloss.Color("#EE8130"),
	golurk.TYPE_WATER:    lipgloss.Color("#6390F0"),
	golurk.TYPE_ELECTRIC: lipgloss.Color("#F7D02C"),
	golurk.TYPE_GRASS:    lipgloss.Color("#7AC74C"),
	golurk.TYPE_ICE:      lipgloss.Color("#96D9D6"),
	golurk.TYPE_FIGHTING: lipgloss.Color("#C22E28"),
	golurk.TYPE_POISON:   lipgloss.Color("#A33EA1"),
	golurk.TYPE_GROUND:   lipgloss.Color("#E2BF65"),
	golurk.TYPE_FLYING:   lipgloss.Color("#A98FF3"),
	golurk.TYPE_PSYCHIC:  lipgloss.Color("#F95587"),
	golurk.TYPE_BUG:      lipgloss.Color("#A6B91A"),
	golurk.TYPE_ROCK:     lipgloss.Color("#B6A136"),
	golurk.TYPE_GHOST:    lipgloss.Color("#735797"),
	golurk.TYPE_DRAGON:   lipgloss.Color("#6F35FC"),
	golurk.TYPE_DARK:     lipgloss.Color("#705746"),
	golurk.TYPE_STEEL:    lipgloss.Color("#B7B7CE"),
}

func Center(width int, height int, text string) string {
	return lipgloss.PlaceVertical(height, lipgloss.Center, lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
}

func GlobalCenter(text string) string {
	return Center(global.TERM_WIDTH, global.TERM_HEIGHT, text)
}

func CenterBlock(block string, text string) string {
	w, h := lipgloss.Size(block)
	return Center(w, h, text)
}

func BestTextColor(backgroundColor lipgloss.Color) lipgloss.Color {
	// thanks https://andrisignorell.github.io/DescTools/reference/TextContrastColor.html
	r, g, b, _ := backgroundColor.RGBA()
	// RGBA is 16 bit per channel
	mean := (r + g + b) / 3 >> 8

	if mean < 127 {
		return lipgloss.Color("#FFFFFF")
	}

	return lipgloss.Color("#000000")
}

// StatusLabel is the short badge text for a status, TOX for bad poison
func StatusLabel(status golurk.StatusKind, badly bool) string {
	if status == golurk.STATUS_POISON && badly {
		return "TOX"
	}

	return statusText[status]
}

// StatusBadge renders the colored status badge, or nothing for a healthy pokemon
func StatusBadge(status golurk.StatusKind, badly bool) string {
	if status == golurk.STATUS_NONE {
		return ""
	}

	color := statusColors[status]
	return lipgloss.NewStyle().Background(color).Foreground(BestTextColor(color)).Render(StatusLabel(status, badly))
}

func TypeBadge(t golurk.PokemonType) string {
	color, ok := typeColors[t]
	if !ok {
		color = lipgloss.Color("#777777")
	}

	return lipgloss.NewStyle().Background(color).Foreground(BestTextColor(color)).Padding(0, 1).Render(t.String())
}
