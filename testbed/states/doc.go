// Package states declares the game states of the testbed.
package states

//go:generate go run github.com/spaghettifunk/daw/cmd/stategen -i states.toml -o states_gen.go

// Handoff is what the title screen passes to gameplay.
type Handoff struct {
	// Seconds spent on the title screen.
	TitleTime float64
	Level     int
}
