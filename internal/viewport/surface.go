package viewport

import (
	"context"

	"github.com/watersight/watersight/internal/mapdata"
)

// RenderSurface is the handle onto the rendering layer. The controller
// never reaches into renderer internals directly; it sequences
// Clear, MountGeometry, Apply so that old highlights are torn down before
// new geometry mounts, and the camera fit only runs once the geometry is
// measurable. MountGeometry returning is the completion signal that
// replaces timing-based staggering.
type RenderSurface interface {
	// Clear removes every highlight layer and popup applied by a previous
	// plan. It must be safe to call with nothing applied.
	Clear()

	// MountGeometry installs the geometry for the upcoming plan and
	// returns once the layers are mounted and measurable.
	MountGeometry(ctx context.Context, features []mapdata.Feature) error

	// Apply renders the highlights, popups and camera fit of a plan whose
	// geometry has been mounted.
	Apply(plan *Plan) error
}

// NopSurface is a RenderSurface for deployments where the rendering client
// pulls plans over the API instead of being driven in-process.
type NopSurface struct{}

func (NopSurface) Clear() {}

func (NopSurface) MountGeometry(context.Context, []mapdata.Feature) error { return nil }

func (NopSurface) Apply(*Plan) error { return nil }
