package configurator

import (
	"fmt"

	"github.com/chazu/padforge/pkg/render"
	"github.com/chazu/padforge/pkg/scene"
	"github.com/chazu/padforge/pkg/settings"
)

// Snapshotter renders catalog previews from a fixed pose.
type Snapshotter struct {
	pose   Pose
	fov    float64
	width  int
	height int
}

// NewSnapshotter returns a snapshotter for the catalog settings s.
func NewSnapshotter(s settings.Snapshot) *Snapshotter {
	return &Snapshotter{pose: PoseFrom(s.Pose), fov: s.FOV, width: s.Width, height: s.Height}
}

// Capture moves cam to the catalog pose, renders one frame of root off the
// frame loop, encodes it as PNG and puts cam back exactly as it was.
func (s *Snapshotter) Capture(root *scene.Node, cam *scene.Camera) ([]byte, error) {
	saved := *cam
	defer func() { *cam = saved }()

	cam.Position = s.pose.Position
	cam.Target = s.pose.Target
	cam.FOV = s.fov

	img, err := render.Render(root, *cam, render.DefaultOptions(s.width, s.height))
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return render.EncodePNG(img)
}
