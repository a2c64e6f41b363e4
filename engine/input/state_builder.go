package input

type StateBuilderOption func(*stateImpl)

// WithLayout replaces the key bindings with the defaults for the given layout.
//
// Parameters:
//   - layout: the keyboard layout to bind
//
// Returns:
//   - StateBuilderOption: a function that sets the layout bindings
func WithLayout(layout Layout) StateBuilderOption {
	return func(s *stateImpl) {
		s.bindings = DefaultBindings(layout)
	}
}

// WithBindings replaces the key bindings with a custom set. The map is copied.
//
// Parameters:
//   - bindings: key code to action mapping
//
// Returns:
//   - StateBuilderOption: a function that sets the key bindings
func WithBindings(bindings Bindings) StateBuilderOption {
	return func(s *stateImpl) {
		s.bindings = bindings.Clone()
	}
}

// WithLookButton sets which mouse button gates mouse-look.
//
// Parameters:
//   - button: the GLFW mouse button code
//
// Returns:
//   - StateBuilderOption: a function that sets the look button
func WithLookButton(button int) StateBuilderOption {
	return func(s *stateImpl) {
		s.lookButton = button
	}
}
