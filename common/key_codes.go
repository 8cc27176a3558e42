package common

// Key codes for viewer input. Values match GLFW key codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW = 87
	KeyA = 65
	KeyS = 83
	KeyD = 68
	KeyC = 67
	KeyG = 71
	KeyP = 80
	KeyR = 82

	KeyComma        = 44
	KeyMinus        = 45
	KeyPeriod       = 46
	KeyEqual        = 61
	KeyLeftBracket  = 91
	KeyRightBracket = 93

	Key1 = 49
	Key9 = 57
)

// Non-printable keys (GLFW values).
const (
	KeyEsc   = 256
	KeyTab   = 258
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265
)
