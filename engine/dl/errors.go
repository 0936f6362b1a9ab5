package dl

import "fmt"

// SymbolError reports a failed symbol resolution.
type SymbolError struct {
	Path   string
	Symbol string
	Got    any
	Err    error
}

func (e *SymbolError) Error() string {
	if e.Got != nil {
		return fmt.Sprintf("%s: symbol %q: %s (got %T)", e.Path, e.Symbol, e.Err, e.Got)
	}
	return fmt.Sprintf("%s: symbol %q: %s", e.Path, e.Symbol, e.Err)
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}
