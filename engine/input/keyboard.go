package input

// KeyboardState holds the pressed state of every scancode, mouse buttons
// included.
type KeyboardState struct {
	Keys [MaxScancode]bool
}

// MouseState holds the cursor position and scroll.
type MouseState struct {
	X      float64
	Y      float64
	Scroll float64
}

// Keyboard tracks current and previous input state so that edges can be
// queried for a frame.
type Keyboard struct {
	current       KeyboardState
	previous      KeyboardState
	mouseCurrent  MouseState
	mousePrevious MouseState
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Update copies the current state to the previous state. Call once per frame
// after events are processed.
func (k *Keyboard) Update() {
	k.previous = k.current
	k.mousePrevious = k.mouseCurrent
	k.mouseCurrent.Scroll = 0
}

// Process records a key transition. It reports whether the state changed.
func (k *Keyboard) Process(s Scancode, pressed bool) bool {
	if !valid(s) {
		return false
	}
	if k.current.Keys[s] == pressed {
		return false
	}
	k.current.Keys[s] = pressed
	return true
}

// ProcessEvent applies a queued Event to the key or mouse state.
func (k *Keyboard) ProcessEvent(ev Event) bool {
	switch ev.Kind {
	case EventCursor:
		return k.ProcessMouseMove(ev.X, ev.Y)
	case EventScroll:
		k.ProcessMouseWheel(ev.Y)
		return ev.Y != 0
	default:
		return k.Process(ev.Scancode, ev.Pressed)
	}
}

func (k *Keyboard) IsDown(s Scancode) bool {
	return valid(s) && k.current.Keys[s]
}

func (k *Keyboard) IsUp(s Scancode) bool {
	return !k.IsDown(s)
}

func (k *Keyboard) WasDown(s Scancode) bool {
	return valid(s) && k.previous.Keys[s]
}

func (k *Keyboard) WasUp(s Scancode) bool {
	return !k.WasDown(s)
}

// Pressed reports a down edge since the last Update.
func (k *Keyboard) Pressed(s Scancode) bool {
	return k.IsDown(s) && !k.WasDown(s)
}

// Released reports an up edge since the last Update.
func (k *Keyboard) Released(s Scancode) bool {
	return !k.IsDown(s) && k.WasDown(s)
}

// ProcessMouseMove records the cursor position. It reports whether it moved.
func (k *Keyboard) ProcessMouseMove(x, y float64) bool {
	if k.mouseCurrent.X == x && k.mouseCurrent.Y == y {
		return false
	}
	k.mouseCurrent.X = x
	k.mouseCurrent.Y = y
	return true
}

func (k *Keyboard) ProcessMouseWheel(delta float64) {
	k.mouseCurrent.Scroll += delta
}

func (k *Keyboard) MousePosition() (float64, float64) {
	return k.mouseCurrent.X, k.mouseCurrent.Y
}

func (k *Keyboard) PreviousMousePosition() (float64, float64) {
	return k.mousePrevious.X, k.mousePrevious.Y
}

func (k *Keyboard) Scroll() float64 {
	return k.mouseCurrent.Scroll
}

func valid(s Scancode) bool {
	return s > NoKey && s < MaxScancode
}
