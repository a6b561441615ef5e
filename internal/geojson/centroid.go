package geojson

import (
	"github.com/tidwall/gjson"
)

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Centroid is the mean of every vertex of a geometry, including nested
// rings, multi-geometries and geometry collections. The last position of
// each polygon ring is left out, so a closed ring counts its first vertex
// once. ok is false when the geometry holds no position.
func Centroid(geometry gjson.Result) (Point, bool) {
	var sum Point
	n := 0
	walkGeometry(geometry, func(p Point) {
		sum.X += p.X
		sum.Y += p.Y
		n++
	})
	if n == 0 {
		return Point{}, false
	}
	return Point{X: sum.X / float64(n), Y: sum.Y / float64(n)}, true
}

func walkGeometry(geometry gjson.Result, visit func(Point)) {
	if !geometry.IsObject() {
		return
	}
	if members := geometry.Get("geometries"); members.IsArray() {
		members.ForEach(func(_, member gjson.Result) bool {
			walkGeometry(member, visit)
			return true
		})
		return
	}
	coordinates := geometry.Get("coordinates")
	switch geometry.Get("type").String() {
	case "Polygon":
		walkRings(coordinates, visit)
	case "MultiPolygon":
		coordinates.ForEach(func(_, polygon gjson.Result) bool {
			walkRings(polygon, visit)
			return true
		})
	default:
		walkPositions(coordinates, visit)
	}
}

func walkRings(rings gjson.Result, visit func(Point)) {
	rings.ForEach(func(_, ring gjson.Result) bool {
		items := ring.Array()
		if len(items) > 0 {
			items = items[:len(items)-1]
		}
		for _, item := range items {
			if p, ok := position(item); ok {
				visit(p)
			}
		}
		return true
	})
}

func walkPositions(value gjson.Result, visit func(Point)) {
	if p, ok := position(value); ok {
		visit(p)
		return
	}
	if !value.IsArray() {
		return
	}
	for _, item := range value.Array() {
		walkPositions(item, visit)
	}
}

// position reads [x, y] or [x, y, z]; extra members are ignored.
func position(value gjson.Result) (Point, bool) {
	if !value.IsArray() {
		return Point{}, false
	}
	items := value.Array()
	if len(items) < 2 || items[0].Type != gjson.Number || items[1].Type != gjson.Number {
		return Point{}, false
	}
	return Point{X: items[0].Float(), Y: items[1].Float()}, true
}
