package input

// Scancode identifies a physical key or button. Key values follow GLFW's key
// tokens so a GLFW key maps to a Scancode by conversion.
type Scancode int32

// NoKey marks an empty scancode slot (typically an unused alternate key). It
// never matches a lookup.
const NoKey Scancode = 0

const (
	KeySpace      Scancode = 32
	KeyApostrophe Scancode = 39
	KeyComma      Scancode = 44
	KeyMinus      Scancode = 45
	KeyPeriod     Scancode = 46
	KeySlash      Scancode = 47
	Key0          Scancode = 48
	Key1          Scancode = 49
	Key2          Scancode = 50
	Key3          Scancode = 51
	Key4          Scancode = 52
	Key5          Scancode = 53
	Key6          Scancode = 54
	Key7          Scancode = 55
	Key8          Scancode = 56
	Key9          Scancode = 57
	KeySemicolon  Scancode = 59
	KeyEqual      Scancode = 61
	KeyA          Scancode = 65
	KeyB          Scancode = 66
	KeyC          Scancode = 67
	KeyD          Scancode = 68
	KeyE          Scancode = 69
	KeyF          Scancode = 70
	KeyG          Scancode = 71
	KeyH          Scancode = 72
	KeyI          Scancode = 73
	KeyJ          Scancode = 74
	KeyK          Scancode = 75
	KeyL          Scancode = 76
	KeyM          Scancode = 77
	KeyN          Scancode = 78
	KeyO          Scancode = 79
	KeyP          Scancode = 80
	KeyQ          Scancode = 81
	KeyR          Scancode = 82
	KeyS          Scancode = 83
	KeyT          Scancode = 84
	KeyU          Scancode = 85
	KeyV          Scancode = 86
	KeyW          Scancode = 87
	KeyX          Scancode = 88
	KeyY          Scancode = 89
	KeyZ          Scancode = 90
	KeyGrave      Scancode = 96
	KeyEscape     Scancode = 256
	KeyEnter      Scancode = 257
	KeyTab        Scancode = 258
	KeyBackspace  Scancode = 259
	KeyInsert     Scancode = 260
	KeyDelete     Scancode = 261
	KeyRight      Scancode = 262
	KeyLeft       Scancode = 263
	KeyDown       Scancode = 264
	KeyUp         Scancode = 265
	KeyPageUp     Scancode = 266
	KeyPageDown   Scancode = 267
	KeyHome       Scancode = 268
	KeyEnd        Scancode = 269
	KeyF1         Scancode = 290
	KeyF2         Scancode = 291
	KeyF3         Scancode = 292
	KeyF4         Scancode = 293
	KeyF5         Scancode = 294
	KeyF6         Scancode = 295
	KeyF7         Scancode = 296
	KeyF8         Scancode = 297
	KeyF9         Scancode = 298
	KeyF10        Scancode = 299
	KeyF11        Scancode = 300
	KeyF12        Scancode = 301
	KeyLeftShift  Scancode = 340
	KeyLeftCtrl   Scancode = 341
	KeyLeftAlt    Scancode = 342
	KeyRightShift Scancode = 344
	KeyRightCtrl  Scancode = 345
	KeyRightAlt   Scancode = 346
	KeyLast       Scancode = 348

	// Mouse buttons live above the key range.
	MouseButtonLeft   Scancode = 400
	MouseButtonRight  Scancode = 401
	MouseButtonMiddle Scancode = 402

	MaxScancode Scancode = 512
)

// MouseButton maps a zero-based mouse button index to its scancode.
func MouseButton(index int) Scancode {
	return MouseButtonLeft + Scancode(index)
}

// EventKind tells key transitions apart from cursor and wheel movement.
type EventKind uint8

const (
	EventKey EventKind = iota
	EventCursor
	EventScroll
)

// Event is one input change recorded by the window and consumed once per
// frame by the run loop. Key events carry Scancode and Pressed. Cursor events
// carry the position in X and Y, scroll events the wheel offset in Y.
type Event struct {
	Kind     EventKind
	Scancode Scancode
	Pressed  bool
	Repeat   bool
	X, Y     float64
	Time     float64
}
