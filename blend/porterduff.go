// Package blend composites straight-alpha float colors with the Porter-Duff
// operators.
//
// Every operator is a pair of coefficients computed from the source and
// destination alpha. The result is
//
//	cs*src + cd*dst
//
// evaluated on all four channels, alpha included. Results are not clamped:
// Plus on two opaque colors yields alpha 2.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
package blend

import (
	"github.com/echoflaresat/alphablend/colors"
	"github.com/echoflaresat/alphablend/vectors"
)

// Coefficient computes a scalar multiplier from the source alpha sa and the
// destination alpha da.
type Coefficient func(sa, da float32) float32

// Coefficient primitives.
func Zero(_, _ float32) float32              { return 0 }
func One(_, _ float32) float32               { return 1 }
func SrcAlpha(sa, _ float32) float32         { return sa }
func DstAlpha(_, da float32) float32         { return da }
func OneMinusSrcAlpha(sa, _ float32) float32 { return 1 - sa }
func OneMinusDstAlpha(_, da float32) float32 { return 1 - da }

// PorterDuff is a compositing operator given by its source and destination
// coefficients. A nil coefficient evaluates to zero, so the zero PorterDuff
// behaves like Clear.
type PorterDuff struct {
	Src Coefficient
	Dst Coefficient
}

// porterDuff is indexed by Mode.
var porterDuff = [numModes]PorterDuff{
	Clear:           {Zero, Zero},
	Source:          {One, Zero},
	Destination:     {Zero, One},
	SourceOver:      {SrcAlpha, OneMinusSrcAlpha},
	DestinationOver: {OneMinusDstAlpha, DstAlpha},
	SourceIn:        {DstAlpha, Zero},
	DestinationIn:   {Zero, SrcAlpha},
	SourceOut:       {OneMinusDstAlpha, Zero},
	DestinationOut:  {Zero, OneMinusSrcAlpha},
	SourceAtop:      {DstAlpha, OneMinusSrcAlpha},
	DestinationAtop: {OneMinusDstAlpha, SrcAlpha},
	Xor:             {OneMinusDstAlpha, OneMinusSrcAlpha},
	Plus:            {One, One},
}

// Coefficients evaluates both coefficients for the given alphas.
func (p PorterDuff) Coefficients(sa, da float32) (cs, cd float32) {
	if p.Src != nil {
		cs = p.Src(sa, da)
	}
	if p.Dst != nil {
		cd = p.Dst(sa, da)
	}
	return cs, cd
}

// Apply returns cs*src + cd*dst.
func (p PorterDuff) Apply(src, dst colors.F32x4Rgba) colors.F32x4Rgba {
	cs, cd := p.Coefficients(src.Alpha(), dst.Alpha())
	s := vectors.Splat(cs).Mul(vectors.FromRGBA(src))
	d := vectors.Splat(cd).Mul(vectors.FromRGBA(dst))
	return s.Add(d).RGBA()
}
