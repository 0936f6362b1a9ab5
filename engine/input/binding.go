package input

// Binding maps up to two physical inputs to an Action. The action's name
// strings are always set, so its functions can be resolved again after the
// module that defined them is reloaded.
type Binding struct {
	Action      Action
	Scancode    Scancode
	ScancodeAlt Scancode
	// SinceLastActivation holds the time of the last lookup hit.
	SinceLastActivation uint64
}

// BindAction builds a resolved Trigger binding.
func BindAction(key, altKey Scancode, name string, fn Callback) Binding {
	return Binding{
		Action:      Trigger{Name: name, Fn: fn},
		Scancode:    key,
		ScancodeAlt: altKey,
	}
}

// BindState builds a resolved Toggle binding.
func BindState(key, altKey Scancode, activateName, deactivateName string, activate, deactivate Callback) Binding {
	return Binding{
		Action: Toggle{
			ActivateName:   activateName,
			DeactivateName: deactivateName,
			Activate:       activate,
			Deactivate:     deactivate,
		},
		Scancode:    key,
		ScancodeAlt: altKey,
	}
}

// BindActionLazy builds a Trigger binding that only carries the callback name.
// It becomes usable after Refresh.
func BindActionLazy(key, altKey Scancode, name string) Binding {
	return BindAction(key, altKey, name, nil)
}

// BindStateLazy is the name-only variant of BindState.
func BindStateLazy(key, altKey Scancode, activateName, deactivateName string) Binding {
	return BindState(key, altKey, activateName, deactivateName, nil, nil)
}

func (b *Binding) matches(s Scancode) bool {
	if s == NoKey {
		return false
	}
	return b.Scancode == s || b.ScancodeAlt == s
}

// sharesKey reports whether any key of other is also a key of b.
func (b *Binding) sharesKey(other *Binding) bool {
	return b.matches(other.Scancode) || b.matches(other.ScancodeAlt)
}

// Bind overwrites the primary scancode of b.
func Bind(b *Binding, s Scancode) bool {
	if b == nil {
		warnRebind()
		return false
	}
	b.Scancode = s
	return true
}

// BindAlt overwrites the alternate scancode of b.
func BindAlt(b *Binding, s Scancode) bool {
	if b == nil {
		warnRebind()
		return false
	}
	b.ScancodeAlt = s
	return true
}
