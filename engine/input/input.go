package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tides/common"
)

// Action identifies a logical input action rather than a physical key.
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionToggleFog
	ActionToggleLighting
	ActionToggleAnimation
)

// Snapshot is a consistent, point-in-time copy of the input state.
// The frame loop reads exactly one Snapshot per tick.
type Snapshot struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool

	FogOn       bool
	LightsOn    bool
	AnimationOn bool

	// MouseDX and MouseDY hold pointer motion accumulated since the previous Snapshot.
	MouseDX float32
	MouseDY float32
}

// Moving reports whether at least one movement flag is set.
//
// Returns:
//   - bool: true if any of forward/backward/left/right is active
func (s Snapshot) Moving() bool {
	return s.Forward || s.Backward || s.Left || s.Right
}

// stateImpl is the mutex-protected implementation of State.
type stateImpl struct {
	mu *sync.Mutex

	current Snapshot

	// bindings maps physical key codes to actions.
	bindings map[uint32]Action
}

// State holds movement and toggle flags written by input collaborators (window callbacks,
// remote clients) and read by the frame loop. Every method is safe for concurrent use.
type State interface {
	// SetForward sets the move-forward flag.
	SetForward(on bool)

	// SetBackward sets the move-backward flag.
	SetBackward(on bool)

	// SetLeft sets the strafe-left flag.
	SetLeft(on bool)

	// SetRight sets the strafe-right flag.
	SetRight(on bool)

	// SetFog sets the fog toggle.
	SetFog(on bool)

	// SetLighting sets the lighting toggle.
	SetLighting(on bool)

	// SetAnimation sets the water animation toggle.
	SetAnimation(on bool)

	// ToggleFog flips the fog toggle.
	ToggleFog()

	// ToggleLighting flips the lighting toggle.
	ToggleLighting()

	// ToggleAnimation flips the water animation toggle.
	ToggleAnimation()

	// SetAction applies a logical action. Movement actions follow pressed; toggle
	// actions flip their flag when pressed is true and ignore releases.
	//
	// Parameters:
	//   - action: the action to apply
	//   - pressed: true for press, false for release
	SetAction(action Action, pressed bool)

	// AddMouseDelta accumulates pointer motion to be drained by the next Snapshot.
	//
	// Parameters:
	//   - dx: horizontal offset (positive = right)
	//   - dy: vertical offset (positive = up)
	AddMouseDelta(dx, dy float32)

	// HandleKeyDown translates a key press into actions through the key bindings.
	// Holding control toggles fog and holding alt toggles lighting, for any key.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	//   - mods: modifier bit flags (common.ModControl, common.ModAlt, ...)
	HandleKeyDown(keyCode uint32, mods int)

	// HandleKeyUp translates a key release into actions through the key bindings.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	HandleKeyUp(keyCode uint32)

	// Snapshot returns a copy of every flag plus the pointer motion accumulated since the
	// previous call, and resets the accumulated motion.
	//
	// Returns:
	//   - Snapshot: the current input state
	Snapshot() Snapshot

	// Peek returns the same data as Snapshot without draining the pointer motion.
	//
	// Returns:
	//   - Snapshot: the current input state
	Peek() Snapshot
}

var _ State = &stateImpl{}

// NewState creates a new input State with fog, lighting and animation enabled and the
// default WASD key bindings.
//
// Parameters:
//   - options: functional options to configure the state
//
// Returns:
//   - State: the newly created input state
func NewState(options ...StateBuilderOption) State {
	s := &stateImpl{
		mu: &sync.Mutex{},
		current: Snapshot{
			FogOn:       true,
			LightsOn:    true,
			AnimationOn: true,
		},
		bindings: DefaultBindings(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// DefaultBindings returns the WASD movement bindings plus L for the animation toggle.
//
// Returns:
//   - map[uint32]Action: key code to action mapping
func DefaultBindings() map[uint32]Action {
	return map[uint32]Action{
		common.KeyW: ActionMoveForward,
		common.KeyS: ActionMoveBackward,
		common.KeyA: ActionMoveLeft,
		common.KeyD: ActionMoveRight,
		common.KeyL: ActionToggleAnimation,
	}
}

func (s *stateImpl) SetForward(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Forward = on
}

func (s *stateImpl) SetBackward(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Backward = on
}

func (s *stateImpl) SetLeft(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Left = on
}

func (s *stateImpl) SetRight(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Right = on
}

func (s *stateImpl) SetFog(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.FogOn = on
}

func (s *stateImpl) SetLighting(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.LightsOn = on
}

func (s *stateImpl) SetAnimation(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.AnimationOn = on
}

func (s *stateImpl) ToggleFog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.FogOn = !s.current.FogOn
}

func (s *stateImpl) ToggleLighting() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.LightsOn = !s.current.LightsOn
}

func (s *stateImpl) ToggleAnimation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.AnimationOn = !s.current.AnimationOn
}

func (s *stateImpl) SetAction(action Action, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyAction(action, pressed)
}

func (s *stateImpl) AddMouseDelta(dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.MouseDX += dx
	s.current.MouseDY += dy
}

func (s *stateImpl) HandleKeyDown(keyCode uint32, mods int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if action, ok := s.bindings[keyCode]; ok {
		s.applyAction(action, true)
	}
	mods |= modifierBit(keyCode)
	if mods&common.ModControl != 0 {
		s.current.FogOn = !s.current.FogOn
	}
	if mods&common.ModAlt != 0 {
		s.current.LightsOn = !s.current.LightsOn
	}
}

func (s *stateImpl) HandleKeyUp(keyCode uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if action, ok := s.bindings[keyCode]; ok {
		s.applyAction(action, false)
	}
}

func (s *stateImpl) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.current
	s.current.MouseDX = 0
	s.current.MouseDY = 0
	return snap
}

func (s *stateImpl) Peek() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// modifierBit returns the modifier flag a modifier key reports about itself. Some platforms
// only set the bit on events that follow the modifier press.
func modifierBit(keyCode uint32) int {
	switch keyCode {
	case common.KeyLeftControl, common.KeyRightControl:
		return common.ModControl
	case common.KeyLeftAlt, common.KeyRightAlt:
		return common.ModAlt
	case common.KeyLeftShift, common.KeyRightShift:
		return common.ModShift
	}
	return 0
}

// applyAction mutates the flag behind action.
// Caller must hold the mutex.
func (s *stateImpl) applyAction(action Action, pressed bool) {
	switch action {
	case ActionMoveForward:
		s.current.Forward = pressed
	case ActionMoveBackward:
		s.current.Backward = pressed
	case ActionMoveLeft:
		s.current.Left = pressed
	case ActionMoveRight:
		s.current.Right = pressed
	case ActionToggleFog:
		if pressed {
			s.current.FogOn = !s.current.FogOn
		}
	case ActionToggleLighting:
		if pressed {
			s.current.LightsOn = !s.current.LightsOn
		}
	case ActionToggleAnimation:
		if pressed {
			s.current.AnimationOn = !s.current.AnimationOn
		}
	}
}
