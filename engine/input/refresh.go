package input

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/dl"
)

// Refresh re-resolves every binding of ctxs against lib. It logs and returns
// false on failure; see RefreshErr.
func Refresh(lib dl.Library, ctxs []*Context) bool {
	if err := RefreshErr(lib, ctxs); err != nil {
		core.LogError("failed to refresh input bindings: %s", err)
		return false
	}
	return true
}

// RefreshErr resolves each binding's function names in lib. Names equal to
// NullName are skipped. Any other failure aborts the refresh: the contexts are
// only updated once every binding has resolved.
func RefreshErr(lib dl.Library, ctxs []*Context) error {
	staged, err := Resolve(lib, ctxs)
	if err != nil {
		return err
	}
	Commit(ctxs, staged)
	return nil
}

// Resolve computes the refreshed actions for ctxs without touching them. The
// result is indexed like ctxs and their bindings.
func Resolve(lib dl.Library, ctxs []*Context) ([][]Action, error) {
	if lib == nil {
		return nil, fmt.Errorf("refresh bindings: %w", dl.ErrClosed)
	}
	var errs []error
	staged := make([][]Action, len(ctxs))
	for i, ctx := range ctxs {
		if ctx == nil {
			continue
		}
		staged[i] = make([]Action, len(ctx.Bindings))
		for j, b := range ctx.Bindings {
			a, err := resolveAction(lib, b.Action)
			if err != nil {
				errs = append(errs, fmt.Errorf("context %q binding %d: %w", ctx.Name, j, err))
				continue
			}
			staged[i][j] = a
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return staged, nil
}

// Commit installs actions produced by Resolve.
func Commit(ctxs []*Context, staged [][]Action) {
	for i, ctx := range ctxs {
		if ctx == nil || staged[i] == nil {
			continue
		}
		for j := range ctx.Bindings {
			ctx.Bindings[j].Action = staged[i][j]
		}
	}
}

func resolveAction(lib dl.Library, a Action) (Action, error) {
	switch x := a.(type) {
	case nil, NoAction:
		return NoAction{}, nil
	case Trigger:
		fn, err := resolveCallback(lib, x.Name, x.Fn)
		if err != nil {
			return nil, err
		}
		x.Fn = fn
		return x, nil
	case Toggle:
		act, err := resolveCallback(lib, x.ActivateName, x.Activate)
		if err != nil {
			return nil, err
		}
		deact, err := resolveCallback(lib, x.DeactivateName, x.Deactivate)
		if err != nil {
			return nil, err
		}
		x.Activate, x.Deactivate = act, deact
		return x, nil
	default:
		return nil, fmt.Errorf("unknown action %T", a)
	}
}

func resolveCallback(lib dl.Library, name string, current Callback) (Callback, error) {
	if name == NullName {
		return current, nil
	}
	fn, err := dl.Resolve[func(float64, []byte)](lib, name)
	if err != nil {
		return nil, err
	}
	return fn, nil
}
