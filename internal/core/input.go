package core

// Button is the single input a client reports per tick.
// The numeric values are the wire codes.
type Button uint32

const (
	ButtonUp   Button = 0 // Move the paddle up
	ButtonDown Button = 1 // Move the paddle down
	ButtonNone Button = 2 // No input this tick
)

// String returns a human-readable name for the button.
func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonNone:
		return "None"
	default:
		return "Unknown"
	}
}
