package clock

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Displayer is a framebuffered display such as *ssd1306.Device.
type Displayer interface {
	drivers.Displayer
	ClearBuffer()
}

// TextDisplay renders text onto a framebuffered display with tinyfont. It implements Sink.
type TextDisplay struct {
	dev   Displayer
	font  tinyfont.Fonter
	color color.RGBA
	// baseline is added to y so that DrawText positions the top of the text
	baseline int16
}

// NewTextDisplay returns a TextDisplay drawing white 8pt text.
func NewTextDisplay(dev Displayer) *TextDisplay {
	return &TextDisplay{
		dev:      dev,
		font:     &proggy.TinySZ8pt7b,
		color:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		baseline: 8,
	}
}

// SetFont changes the font. baseline is the distance from the top of a line to the font's
// baseline.
func (t *TextDisplay) SetFont(font tinyfont.Fonter, baseline int16) {
	t.font = font
	t.baseline = baseline
}

func (t *TextDisplay) ClearBuffer() {
	t.dev.ClearBuffer()
}

// DrawText draws text with its top left corner at (x, y).
func (t *TextDisplay) DrawText(x, y int16, text string) {
	tinyfont.WriteLine(t.dev, t.font, x, y+t.baseline, text, t.color)
}

func (t *TextDisplay) Display() error {
	return t.dev.Display()
}
