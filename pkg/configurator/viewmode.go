package configurator

// SelectMode switches the view mode. Selecting the current mode does
// nothing. Leaving a mode always clears the selection.
//
// Edit modes disable orbit and fly to the Detail preset shifted sideways by
// the lateral offset. Overview flies back to the pose recorded on the first
// departure from Overview and re-enables orbit once it arrives.
func (c *Configurator) SelectMode(m ViewMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m == c.mode {
		return
	}
	c.selector.Clear()
	prev := c.mode
	c.mode = m
	c.log.Debug("mode: " + prev.String() + " -> " + m.String())

	if m == Overview {
		home := c.homePose()
		c.animator.AnimateTo(home, func(p Pose) {
			c.orbit.Enabled = c.settings.Camera.OrbitEnabled
			c.orbit.SetTarget(p.Target)
		})
		return
	}

	if c.home == nil {
		p := PoseOf(c.cam)
		c.home = &p
	}
	c.orbit.Enabled = false
	c.animator.AnimateTo(c.detailPose(), nil)

	if m == ModeChasis && len(c.groups.Chasis) > 0 {
		c.selector.Select(c.groups.Chasis[0])
	}
}

// homePose is the pose recorded before the first edit, or the Overview
// preset if the camera has never left Overview.
func (c *Configurator) homePose() Pose {
	if c.home != nil {
		return *c.home
	}
	return PoseFrom(c.settings.Camera.Overview)
}

func (c *Configurator) detailPose() Pose {
	p := PoseFrom(c.settings.Camera.Detail)
	p.Position.X += c.settings.Camera.LateralOffset
	return p
}
