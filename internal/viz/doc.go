// Package viz is the terminal front-end of the sandbox.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: preset menu that hands over to the live view
//   - [Model]: live view that drives a simulation at 60 frames a second
//   - [Canvas]: braille pixel canvas with a colour per cell
//   - [Surface]: projects world-space draw calls onto a Canvas
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Step one frame while paused
//	T/H/B - Spawn a triplet, a hexagon or a batch of n-gons
//	1-9   - Spawn an n-gon with that many minors
//	R     - Clear the world
//	C     - Cycle color themes
//	G     - Toggle the background grid
//	⇧G    - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// Recordings are saved to quanta.gif in the current directory.
package viz
