package blend

import "github.com/echoflaresat/alphablend/colors"

// Blender composites a source color onto a destination color.
// Mode and PorterDuff both implement it.
type Blender interface {
	Apply(src, dst colors.F32x4Rgba) colors.F32x4Rgba
}

// Func adapts an ordinary function to a Blender.
type Func func(src, dst colors.F32x4Rgba) colors.F32x4Rgba

func (f Func) Apply(src, dst colors.F32x4Rgba) colors.F32x4Rgba {
	return f(src, dst)
}

var (
	_ Blender = Mode(0)
	_ Blender = PorterDuff{}
	_ Blender = Func(nil)
)
