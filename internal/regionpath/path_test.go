package regionpath

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/regionshot/internal/geom"
)

type rectRegion geom.Rect

func (r rectRegion) AddPath(p *Path, sizeOffset float64) {
	p.AddRectangle(geom.Rect(r).SizeOffset(sizeOffset))
}

type ellipseRegion geom.Rect

func (r ellipseRegion) AddPath(p *Path, sizeOffset float64) {
	p.AddEllipse(geom.Rect(r).SizeOffset(sizeOffset))
}

func TestAddRectangleLayout(t *testing.T) {
	p := New()
	p.AddRectangle(geom.R(10, 20, 30, 40))
	require.Len(t, p.Points, 4)
	assert.Equal(t, []PointType{Start, Line, Line, Line | CloseSubpath}, p.Types)
	assert.Equal(t, geom.Pt(40, 60), p.Points[2])

	p.AddRectangle(geom.R(0, 0, 0, 10))
	assert.Len(t, p.Points, 4, "degenerate rectangles contribute nothing")
}

func TestAddEllipseLayout(t *testing.T) {
	p := New()
	p.AddEllipse(geom.R(0, 0, 100, 50))
	require.Len(t, p.Points, 13)
	assert.Equal(t, Start, p.Types[0])
	for _, typ := range p.Types[1:12] {
		assert.Equal(t, Bezier, typ)
	}
	assert.Equal(t, Bezier|CloseSubpath, p.Types[12])
	assert.Equal(t, geom.Pt(100, 25), p.Points[0])
	assert.Equal(t, geom.Pt(50, 50), p.Points[3], "first quarter runs clockwise to the bottom")
	assert.Equal(t, geom.R(0, 0, 100, 50), p.Bounds())
}

func TestAddPolygonNormalisesOrientation(t *testing.T) {
	ccw := []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}}
	p := New()
	p.AddPolygon(ccw)
	require.Len(t, p.Points, 4)
	assert.Greater(t, signedArea(p.Points), 0.0)
	assert.Equal(t, geom.Pt(10, 0), p.Points[0])
	assert.True(t, p.Types[3].Closes())

	p.AddPolygon([]geom.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 10}})
	assert.Len(t, p.Points, 4, "collinear polygons contribute nothing")
}

func TestMergeEmpty(t *testing.T) {
	assert.Nil(t, Merge([]rectRegion(nil), 0))
	assert.True(t, Merge([]rectRegion(nil), 0).IsEmpty())
}

func TestMergeIdempotent(t *testing.T) {
	regions := []Contributor{
		rectRegion(geom.R(100, 100, 300, 200)),
		ellipseRegion(geom.R(250, 150, 120, 80)),
		rectRegion(geom.R(10, 10, 5, 5)),
	}
	first := Merge(regions, 0)
	second := Merge(regions, 0)
	require.NotNil(t, first)
	assert.Equal(t, first.Points, second.Points)
	assert.Equal(t, first.Types, second.Types)
	assert.Equal(t, first.Geometry(), second.Geometry())

	first.Translate(5, 5)
	assert.NotEqual(t, first.Points, Merge(regions, 0).Points, "merge results do not share storage")
}

func TestMergeDrawPathIsInset(t *testing.T) {
	regions := []rectRegion{rectRegion(geom.R(100, 100, 300, 200))}
	fill := Merge(regions, 0)
	draw := Merge(regions, -1)
	assert.Equal(t, geom.R(100, 100, 300, 200), fill.Bounds())
	assert.Equal(t, geom.R(100, 100, 299, 199), draw.Bounds())
}

func TestGeometryMixedFigures(t *testing.T) {
	p := New()
	p.AddRectangle(geom.R(0, 0, 10, 10))
	p.AddEllipse(geom.R(20, 0, 10, 10))

	g := p.Geometry()
	require.Len(t, g.Figures, 2)
	rect := g.Figures[0]
	assert.Equal(t, geom.Pt(0, 0), rect.Start)
	require.Len(t, rect.Segments, 1)
	assert.Equal(t, Lines, rect.Segments[0].Kind)
	assert.Len(t, rect.Segments[0].Points, 3)

	ellipse := g.Figures[1]
	require.Len(t, ellipse.Segments, 1)
	assert.Equal(t, Beziers, ellipse.Segments[0].Kind)
	assert.Len(t, ellipse.Segments[0].Points, 12)
}

func TestGeometryLineThenCurveInOneFigure(t *testing.T) {
	p := &Path{
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 12, Y: 2}, {X: 14, Y: 4}, {X: 10, Y: 10}, {X: 8, Y: 12}, {X: 6, Y: 14}, {X: 0, Y: 10}},
		Types:  []PointType{Start, Line, Bezier, Bezier, Bezier, Bezier, Bezier, Bezier | CloseSubpath},
	}
	g := p.Geometry()
	require.Len(t, g.Figures, 1)
	segs := g.Figures[0].Segments
	require.Len(t, segs, 2)
	assert.Equal(t, Lines, segs[0].Kind)
	assert.Equal(t, []geom.Point{{X: 10, Y: 0}}, segs[0].Points)
	assert.Equal(t, Beziers, segs[1].Kind)
	assert.Len(t, segs[1].Points, 6)
}

func TestGeometryStartDiscardsBuffer(t *testing.T) {
	p := &Path{
		Points: []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 9, Y: 9}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}},
		Types:  []PointType{Start, Line, Start, Line, Line, Line | CloseSubpath},
	}
	g := p.Geometry()
	require.Len(t, g.Figures, 1)
	assert.Equal(t, geom.Pt(9, 9), g.Figures[0].Start)
	assert.Equal(t, []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}}, g.Figures[0].Segments[0].Points)
}

func TestGeometrySingleCubicKept(t *testing.T) {
	p := &Path{
		Points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 0}},
		Types:  []PointType{Start, Bezier, Bezier, Bezier | CloseSubpath},
	}
	figs := p.Geometry().Figures
	require.Len(t, figs, 1)
	require.Len(t, figs[0].Segments, 1)
	assert.Equal(t, Beziers, figs[0].Segments[0].Kind)
	assert.Equal(t, []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 0}}, figs[0].Segments[0].Points)
}

func TestGeometryTrailingCubicAfterLinesKept(t *testing.T) {
	p := &Path{
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 8, Y: 12}, {X: 4, Y: 12}, {X: 0, Y: 0}},
		Types:  []PointType{Start, Line, Line, Bezier, Bezier, Bezier | CloseSubpath},
	}
	figs := p.Geometry().Figures
	require.Len(t, figs, 1)
	require.Len(t, figs[0].Segments, 2)
	assert.Equal(t, Lines, figs[0].Segments[0].Kind)
	assert.Equal(t, Beziers, figs[0].Segments[1].Kind)
	assert.Len(t, figs[0].Segments[1].Points, 3)
}

func TestGeometryShortBezierDropped(t *testing.T) {
	p := &Path{
		Points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 3, Y: 0}},
		Types:  []PointType{Start, Bezier, Bezier | CloseSubpath},
	}
	assert.Empty(t, p.Geometry().Figures)
}

func TestGeometryUnclosedDropped(t *testing.T) {
	p := &Path{
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		Types:  []PointType{Start, Line, Line},
	}
	assert.Empty(t, p.Geometry().Figures)
}

func TestMaskRectangleIsExact(t *testing.T) {
	p := New()
	p.AddRectangle(geom.R(100, 100, 300, 200))
	bounds := p.Bounds().Image()
	require.Equal(t, image.Rect(100, 100, 400, 300), bounds)

	mask := p.Geometry().Mask(bounds)
	require.Equal(t, image.Rect(0, 0, 300, 200), mask.Bounds())
	for y := 0; y < 200; y++ {
		for x := 0; x < 300; x++ {
			if a := mask.AlphaAt(x, y).A; a != 0xff {
				t.Fatalf("mask at %d,%d = %d, want 255", x, y, a)
			}
		}
	}
}

func TestMaskOverlapUnions(t *testing.T) {
	p := Merge([]rectRegion{
		rectRegion(geom.R(0, 0, 20, 20)),
		rectRegion(geom.R(10, 10, 20, 20)),
	}, 0)
	bounds := p.Bounds().Image()
	mask := p.Geometry().Mask(bounds)
	assert.Equal(t, uint8(0xff), mask.AlphaAt(15, 15).A, "overlap stays filled")
	assert.Equal(t, uint8(0xff), mask.AlphaAt(5, 5).A)
	assert.Equal(t, uint8(0xff), mask.AlphaAt(25, 25).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(25, 5).A)
	assert.Equal(t, uint8(0), mask.AlphaAt(5, 25).A)
}
