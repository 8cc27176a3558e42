package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithTarget sets the initial look-at point.
//
// Parameters:
//   - target: the target position
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(target [3]float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithOrbit sets the initial spherical coordinates around the target.
//
// Parameters:
//   - radius: distance from the target
//   - azimuth: horizontal angle in radians
//   - elevation: vertical angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the orbit
func WithOrbit(radius, azimuth, elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius, cc.azimuth, cc.elevation = radius, azimuth, elevation
	}
}

// WithElevationBounds clamps the vertical orbit angle.
func WithElevationBounds(minElevation, maxElevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation, cc.maxElevation = minElevation, maxElevation
	}
}

// WithRadiusBounds clamps the zoom distance.
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius, cc.maxRadius = minRadius, maxRadius
	}
}

// WithMouseSensitivity sets radians of orbit per dragged pixel.
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets radius change per scroll unit.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}
