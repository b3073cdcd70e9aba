package input

// StateBuilderOption is a functional option for configuring an input State.
type StateBuilderOption func(*stateImpl)

// WithFog sets the initial fog toggle.
//
// Parameters:
//   - on: initial fog state
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithFog(on bool) StateBuilderOption {
	return func(s *stateImpl) {
		s.current.FogOn = on
	}
}

// WithLighting sets the initial lighting toggle.
//
// Parameters:
//   - on: initial lighting state
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithLighting(on bool) StateBuilderOption {
	return func(s *stateImpl) {
		s.current.LightsOn = on
	}
}

// WithAnimation sets the initial water animation toggle.
//
// Parameters:
//   - on: initial animation state
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithAnimation(on bool) StateBuilderOption {
	return func(s *stateImpl) {
		s.current.AnimationOn = on
	}
}

// WithBinding binds a key code to an action, replacing any existing binding for that key.
//
// Parameters:
//   - keyCode: the virtual key code
//   - action: the action to trigger
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithBinding(keyCode uint32, action Action) StateBuilderOption {
	return func(s *stateImpl) {
		s.bindings[keyCode] = action
	}
}

// WithBindings replaces the whole key binding table.
//
// Parameters:
//   - bindings: key code to action mapping
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithBindings(bindings map[uint32]Action) StateBuilderOption {
	return func(s *stateImpl) {
		s.bindings = make(map[uint32]Action, len(bindings))
		for k, v := range bindings {
			s.bindings[k] = v
		}
	}
}
