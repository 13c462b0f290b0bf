// Package viz renders robot paths in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per character
//   - [Fit] and [Projection]: map world coordinates onto a canvas
//   - [Playback]: Bubble Tea model that replays a run in real time
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	+/-   - Double/halve playback speed
//	R     - Restart from the first sample
//	G     - Jump to the end
//	Q     - Quit
package viz
