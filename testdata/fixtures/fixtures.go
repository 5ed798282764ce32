// Package fixtures holds declarations read by the source tests.
package fixtures

import (
	"context"

	"github.com/zoobzio/artdeco"
)

type Point struct {
	X, Y int
}

func Move(_ context.Context, p Point, steps int, labels ...string) Point {
	p.X += steps
	p.Y += len(labels)
	return p
}

func Options(name string, kw artdeco.Kwargs) string {
	return name + kw.String()
}

func Unnamed(int, string) {}

func (p *Point) Scale(f int) {
	p.X *= f
	p.Y *= f
}
