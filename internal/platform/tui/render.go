package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/shapedash/internal/core"
	"github.com/vovakirdan/shapedash/internal/engine"
	"github.com/vovakirdan/shapedash/internal/player"
)

// Camera layout in world units.
const (
	cameraOffsetX = 200
	unitsPerCol   = 8
	unitsPerRow   = 16
	groundRowFrac = 0.75
	hudRows       = 1
	hazardWidth   = 20
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// SceneRenderer draws the world around the player into a Screen.
type SceneRenderer struct {
	screen    *core.Screen
	camera    core.Camera
	tileWidth float64
	groundY   float64
}

// NewSceneRenderer creates a renderer for a width x height terminal.
// groundY is the world height kept at a fixed row.
func NewSceneRenderer(width, height int, tileWidth, groundY float64) *SceneRenderer {
	r := &SceneRenderer{
		screen:    core.NewScreen(width, height),
		camera:    core.NewCamera(width, height-hudRows, unitsPerCol, unitsPerRow),
		tileWidth: tileWidth,
		groundY:   groundY,
	}
	r.anchor()
	return r
}

func (r *SceneRenderer) anchor() {
	r.camera.Anchor(r.groundY, int(float64(r.camera.Rows)*groundRowFrac))
}

// Resize adapts the renderer to a new terminal size.
func (r *SceneRenderer) Resize(width, height int) {
	r.screen.Resize(width, height)
	r.camera.Resize(width, height-hudRows)
	r.anchor()
}

// Screen returns the buffer drawn by the last Draw call.
func (r *SceneRenderer) Screen() *core.Screen {
	return r.screen
}

// Camera returns the current camera.
func (r *SceneRenderer) Camera() core.Camera {
	return r.camera
}

// Draw renders the HUD and every sprite visible around playerX.
func (r *SceneRenderer) Draw(scene engine.Scene, playerX float64, hud core.HUD) {
	r.screen.Clear()
	r.camera.Follow(playerX, cameraOffsetX)

	minX, maxX := r.camera.Span()
	sprites := scene.Sprites(minX-r.tileWidth, maxX+r.tileWidth)
	// Terrain first so the player and spikes stay on top.
	sort.SliceStable(sprites, func(i, j int) bool {
		if sprites[i].Kind != sprites[j].Kind {
			return sprites[i].Kind < sprites[j].Kind
		}
		return sprites[i].X < sprites[j].X
	})
	for _, sp := range sprites {
		if !sp.Visible {
			continue
		}
		r.drawSprite(sp)
	}
	for _, p := range scene.Particles() {
		col, row := r.camera.ToCell(p.X, p.Y)
		glyph := '*'
		if p.Life < 0.5 {
			glyph = '.'
		}
		r.screen.Set(col, row+hudRows, glyph, core.ColorOrange)
	}
	r.drawHUD(hud)
}

func (r *SceneRenderer) drawSprite(sp engine.Sprite) {
	var rect core.Rect
	var glyph rune
	var color core.Color
	switch sp.Kind {
	case engine.KindTile:
		size := sp.Size
		if size <= 0 {
			size = r.tileWidth
		}
		rect = r.camera.RectFor(sp.X, sp.Y, size, size)
		// Surface row in a brighter color.
		top := core.NewRect(rect.X, rect.Y+hudRows, rect.W, 1)
		r.screen.DrawRect(top, '▀', core.ColorBrightCyan)
		rect.Y++
		rect.H--
		glyph, color = '█', core.ColorBlue
	case engine.KindHazard:
		rect = r.camera.RectFor(sp.X-hazardWidth/2, sp.Y, hazardWidth, r.tileWidth/2)
		glyph, color = '▲', core.ColorBrightRed
	case engine.KindPlayer:
		rect = r.camera.RectFor(sp.X-sp.Size/2, sp.Y-sp.Size/2, sp.Size, sp.Size)
		glyph, color = playerGlyph(sp.Sides, sp.Rotation)
	default:
		return
	}
	rect.Y += hudRows
	if !rect.Empty() {
		r.screen.DrawRect(rect, glyph, color)
	}
}

// playerGlyph picks the character for a shape at a rotation.
func playerGlyph(sides int, rotation float64) (rune, core.Color) {
	quarter := int(math.Round(player.Normalize(rotation)/90)) % 4
	switch sides {
	case 4:
		if math.Mod(player.Normalize(rotation), 90) == 0 {
			return '█', core.ColorBrightYellow
		}
		return '▓', core.ColorBrightYellow
	case 3:
		return []rune{'▲', '▶', '▼', '◀'}[quarter], core.ColorMagenta
	default:
		return []rune{'◐', '◓', '◑', '◒'}[quarter], core.ColorCyan
	}
}

func (r *SceneRenderer) drawHUD(hud core.HUD) {
	left := fmt.Sprintf(" %s  score %d", strings.ToUpper(hud.Shape), hud.Score)
	right := fmt.Sprintf("best %d ", hud.Best)
	if hud.Paused {
		left += "  PAUSED"
	}
	r.screen.DrawHLine(0, 0, r.screen.Width(), ' ', core.ColorDefault)
	r.screen.DrawText(0, 0, left, core.ColorWhite)
	r.screen.DrawText(r.screen.Width()-len(right), 0, right, core.ColorGray)
}
