package mountaincar

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
)

// Frame dimensions in pixels.
const (
	FrameWidth  = 600
	FrameHeight = 400
)

// Render draws the valley, the car and the goal flag for the current
// state and returns the frame.
func (m *MountainCar) Render() (image.Image, error) {
	if m.renderMode != RGBArray {
		return nil, fmt.Errorf("render: environment has no frame-producing "+
			"render mode, got %q", m.renderMode)
	}
	if m.state == nil {
		return nil, fmt.Errorf("render: Reset must be called before Render")
	}

	dc := gg.NewContext(FrameWidth, FrameHeight)

	// Sky
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Hill curve y = sin(3x)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	const segments = 100
	for i := 0; i <= segments; i++ {
		x := MinPosition + (MaxPosition-MinPosition)*float64(i)/segments
		px, py := worldToPixel(x)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.Stroke()

	// Goal flag
	flagX, flagY := worldToPixel(GoalPosition)
	dc.DrawLine(flagX, flagY, flagX, flagY-40)
	dc.Stroke()
	dc.MoveTo(flagX, flagY-40)
	dc.LineTo(flagX+25, flagY-33)
	dc.LineTo(flagX, flagY-25)
	dc.ClosePath()
	dc.SetRGB(0.8, 0.8, 0)
	dc.Fill()

	// Car
	carX, carY := worldToPixel(m.state.AtVec(0))
	dc.SetRGB(0, 0, 0)
	dc.DrawCircle(carX, carY-8, 8)
	dc.Fill()

	return dc.Image(), nil
}

// worldToPixel maps a position on the hill to frame coordinates, with
// the vertical coordinate taken from the hill curve.
func worldToPixel(position float64) (float64, float64) {
	height := math.Sin(3 * position)

	px := (position - MinPosition) / (MaxPosition - MinPosition) *
		FrameWidth
	// The curve spans [-1, 1]; leave a margin above and below.
	py := FrameHeight - (height+1)/2*(FrameHeight-100) - 50

	return px, py
}
