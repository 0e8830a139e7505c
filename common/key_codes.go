package common

// Virtual key codes for the show viewer's transport controls.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // Spacebar (ASCII): pause / resume the show clock
	KeyR     = 82  // R key (ASCII): rewind to t = 0
	KeyF     = 70  // F key (ASCII): jump to the finale
	KeyEsc   = 256 // Escape key (GLFW)

	KeyRight = 262 // Right arrow (GLFW): seek forward
	KeyLeft  = 263 // Left arrow (GLFW): seek backward
	KeyDown  = 264 // Down arrow (GLFW): slow down
	KeyUp    = 265 // Up arrow (GLFW): speed up

	Key1 = 49 // 1 key (ASCII): normal speed
)
