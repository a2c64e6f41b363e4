package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*Config)

// WithPosition sets the camera's world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *Config) {
		c.Position = mgl32.Vec3{x, y, z}
	}
}

// WithDirection sets the camera's look direction. The vector is normalized when the
// camera is built.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's direction
func WithDirection(x, y, z float32) CameraBuilderOption {
	return func(c *Config) {
		c.Direction = mgl32.Vec3{x, y, z}
	}
}

// WithLookAt points the camera at a world-space target relative to the position set so
// far. Apply it after WithPosition. A target equal to the position leaves the direction unchanged.
//
// Parameters:
//   - x, y, z: target components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's direction toward the target
func WithLookAt(x, y, z float32) CameraBuilderOption {
	return func(c *Config) {
		if d := (mgl32.Vec3{x, y, z}).Sub(c.Position); d.Len() > 0 {
			c.Direction = d
		}
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *Config) {
		c.Up = mgl32.Vec3{x, y, z}
	}
}

// WithTranslationSpeed sets the movement speed in world units per second.
//
// Parameters:
//   - speed: translation speed
//
// Returns:
//   - CameraBuilderOption: a function that sets the translation speed
func WithTranslationSpeed(speed float32) CameraBuilderOption {
	return func(c *Config) {
		c.TranslationSpeed = speed
	}
}

// WithRotationSpeed sets the mouse-look speed in degrees per pixel per second.
//
// Parameters:
//   - speed: rotation speed
//
// Returns:
//   - CameraBuilderOption: a function that sets the rotation speed
func WithRotationSpeed(speed float32) CameraBuilderOption {
	return func(c *Config) {
		c.RotationSpeed = speed
	}
}
