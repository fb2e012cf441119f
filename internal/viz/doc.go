// Package viz is the terminal front end of oscilab, built on Bubble Tea.
//
//   - [App]: system menu followed by the live view
//   - [Model]: live view of a session with canvas, readings, charts and
//     the methodology report
//   - [Canvas]: Braille-based pixel canvas
//
// # Key Bindings
//
//	Space - Start/Pause
//	R     - Reset to t = 0
//	S     - Toggle slow motion
//	1/2/3 - Switch system
//	Tab   - Select parameter, Up/Down to adjust
//	C     - Toggle charts
//	P     - Toggle methodology report
//	T     - Cycle color themes
//	?     - Show help overlay
//	Esc   - Back to menu
package viz
