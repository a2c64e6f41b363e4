package camera

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/input"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// VerticalFov is the vertical field of view in degrees.
	VerticalFov float32 = 80

	// NearPlane is the near clipping plane distance.
	NearPlane float32 = 0.01

	// FarPlane is the far clipping plane distance.
	FarPlane float32 = 1000

	// DefaultTranslationSpeed is the movement speed in world units per second.
	DefaultTranslationSpeed float32 = 5

	// DefaultRotationSpeed is the mouse-look speed in degrees per pixel per second.
	DefaultRotationSpeed float32 = 5
)

// DepthRemap maps OpenGL-style clip depth [-w, w] onto the WebGPU range [0, w]:
// z' = 0.5*z + 0.5*w. Column-major.
var DepthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Config holds the initial camera state. Zero-valued fields take their defaults:
// Direction (0,0,1), Up (0,1,0), DefaultTranslationSpeed and DefaultRotationSpeed.
type Config struct {
	Position         mgl32.Vec3
	Direction        mgl32.Vec3
	Up               mgl32.Vec3
	TranslationSpeed float32
	RotationSpeed    float32
}

type cameraImpl struct {
	mu *sync.Mutex

	position  mgl32.Vec3
	direction mgl32.Vec3
	up        mgl32.Vec3

	translationSpeed float32
	rotationSpeed    float32
}

// Camera is a free-flying first-person camera. Update applies one frame of input and
// UniformPayload produces the matrix the raymarching shader consumes.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Direction returns the unit look direction.
	//
	// Returns:
	//   - mgl32.Vec3: the direction
	Direction() mgl32.Vec3

	// Up returns the unit up vector. It never changes after construction.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Right returns normalize(direction × up), or the zero vector when the direction is
	// parallel to up.
	//
	// Returns:
	//   - mgl32.Vec3: the right vector
	Right() mgl32.Vec3

	// TranslationSpeed returns the movement speed in world units per second.
	//
	// Returns:
	//   - float32: translation speed
	TranslationSpeed() float32

	// RotationSpeed returns the mouse-look speed in degrees per pixel per second.
	//
	// Returns:
	//   - float32: rotation speed
	RotationSpeed() float32

	// SetPosition moves the camera to a world-space position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetDirection points the camera along d. The vector is normalized; a zero vector is ignored.
	//
	// Parameters:
	//   - d: the new look direction
	SetDirection(d mgl32.Vec3)

	// Update applies one frame of input.
	// Each held movement action adds or subtracts the direction, right or up vector scaled by
	// TranslationSpeed*deltaTime, so diagonal movement is faster than straight movement.
	// While ActionLook is held the pointer displacement builds a pitch quaternion about right
	// and a yaw quaternion about up. The two are summed, normalized and applied to the
	// direction, which is then renormalized. Pitch is not clamped.
	//
	// Parameters:
	//   - in: the input snapshot for this frame
	//   - deltaTime: elapsed seconds since the previous frame
	Update(in input.Input, deltaTime float32)

	// ViewProjection returns DepthRemap × Perspective(VerticalFov, aspect, NearPlane, FarPlane) × View.
	// Panics if the depth-corrected projection is not invertible.
	//
	// Parameters:
	//   - aspect: viewport width / height
	//
	// Returns:
	//   - mgl32.Mat4: the view-projection matrix
	ViewProjection(aspect float32) mgl32.Mat4

	// UniformPayload packages ViewProjection(aspect) for upload to the camera uniform buffer.
	// Panics if the depth-corrected projection is not invertible.
	//
	// Parameters:
	//   - aspect: viewport width / height
	//
	// Returns:
	//   - GPUCameraUniform: the 64-byte uniform payload
	UniformPayload(aspect float32) GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera from functional options applied over the default Config.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	var cfg Config
	for _, option := range options {
		option(&cfg)
	}
	return NewCameraFromConfig(cfg)
}

// NewCameraFromConfig creates a Camera from an explicit Config. Zero-valued fields take
// their defaults and both direction and up are normalized.
//
// Parameters:
//   - cfg: the initial camera state
//
// Returns:
//   - Camera: the newly created camera
func NewCameraFromConfig(cfg Config) Camera {
	return &cameraImpl{
		mu:               &sync.Mutex{},
		position:         cfg.Position,
		direction:        common.Coalesce(safeNormalize(cfg.Direction), mgl32.Vec3{0, 0, 1}),
		up:               common.Coalesce(safeNormalize(cfg.Up), mgl32.Vec3{0, 1, 0}),
		translationSpeed: common.Coalesce(cfg.TranslationSpeed, DefaultTranslationSpeed),
		rotationSpeed:    common.Coalesce(cfg.RotationSpeed, DefaultRotationSpeed),
	}
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Direction() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right()
}

func (c *cameraImpl) TranslationSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.translationSpeed
}

func (c *cameraImpl) RotationSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotationSpeed
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

func (c *cameraImpl) SetDirection(d mgl32.Vec3) {
	if d.Len() == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.direction = d.Normalize()
}

func (c *cameraImpl) Update(in input.Input, deltaTime float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	right := c.right()
	step := c.translationSpeed * deltaTime

	if in.Held(input.ActionForward) {
		c.position = c.position.Add(c.direction.Mul(step))
	}
	if in.Held(input.ActionBackward) {
		c.position = c.position.Sub(c.direction.Mul(step))
	}
	if in.Held(input.ActionStrafeRight) {
		c.position = c.position.Add(right.Mul(step))
	}
	if in.Held(input.ActionStrafeLeft) {
		c.position = c.position.Sub(right.Mul(step))
	}
	if in.Held(input.ActionAscend) {
		c.position = c.position.Add(c.up.Mul(step))
	}
	if in.Held(input.ActionDescend) {
		c.position = c.position.Sub(c.up.Mul(step))
	}

	if !in.Held(input.ActionLook) {
		return
	}
	dx, dy := in.PointerDelta()
	if dx == 0 && dy == 0 {
		return
	}
	k := math32.Pi / 180 * c.rotationSpeed * deltaTime
	pitch := mgl32.QuatRotate(-dy*k, right)
	yaw := mgl32.QuatRotate(-dx*k, c.up)
	q := pitch.Add(yaw)
	if q.Len() == 0 {
		return
	}
	if d := q.Normalize().Rotate(c.direction); d.Len() > 0 {
		c.direction = d.Normalize()
	}
}

func (c *cameraImpl) ViewProjection(aspect float32) mgl32.Mat4 {
	c.mu.Lock()
	position, direction, up := c.position, c.direction, c.up
	c.mu.Unlock()

	view := mgl32.LookAtV(position, position.Add(direction), up)
	projection := mgl32.Perspective(mgl32.DegToRad(VerticalFov), aspect, NearPlane, FarPlane)
	corrected := DepthRemap.Mul4(projection)
	if det := corrected.Det(); det == 0 || math32.IsNaN(det) || math32.IsInf(det, 0) {
		panic(fmt.Sprintf("camera projection is not invertible (aspect %v, determinant %v)", aspect, det))
	}
	return corrected.Mul4(view)
}

func (c *cameraImpl) UniformPayload(aspect float32) GPUCameraUniform {
	return GPUCameraUniform{ViewProj: [16]float32(c.ViewProjection(aspect))}
}

// right must be called with c.mu held.
func (c *cameraImpl) right() mgl32.Vec3 {
	return safeNormalize(c.direction.Cross(c.up))
}

// safeNormalize returns v scaled to unit length, or the zero vector when v has no usable length.
func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
