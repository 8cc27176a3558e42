package controller

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ActionScript maps a movement state to an action name.
type ActionScript interface {
	// Desired runs the script for one movement state.
	//
	// Parameters:
	//   - in: the frame input, exposed as moving, mode, forward, backward, left, right and requested
	//   - label: the built-in choice, exposed as label
	//
	// Returns:
	//   - string: the value the script assigned to action, "" when it left it unset
	//   - error: a runtime error from the script
	Desired(in Input, label string) (string, error)
}

// tengoScript is the tengo implementation of ActionScript.
type tengoScript struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
}

var _ ActionScript = &tengoScript{}

var scriptInputs = []string{"moving", "forward", "backward", "left", "right"}

// CompileActionScript compiles tengo source. The script reads moving, mode, forward, backward,
// left, right, requested and label, and assigns the chosen action name to action:
//
//	action = label
//	if moving && left { action = "Left Strafe Walking" }
func CompileActionScript(src []byte) (ActionScript, error) {
	script := tengo.NewScript(src)
	for _, name := range scriptInputs {
		_ = script.Add(name, false)
	}
	_ = script.Add("mode", "")
	_ = script.Add("requested", "")
	_ = script.Add("label", "")
	_ = script.Add("action", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile action script: %w", err)
	}
	return &tengoScript{compiled: compiled}, nil
}

// LoadActionScript reads and compiles a tengo file.
func LoadActionScript(path string) (ActionScript, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read action script: %w", err)
	}
	s, err := CompileActionScript(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *tengoScript) Desired(in Input, label string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]any{
		"moving":    in.Controls.Moving(),
		"forward":   in.Controls.Forward,
		"backward":  in.Controls.Backward,
		"left":      in.Controls.Left,
		"right":     in.Controls.Right,
		"mode":      in.Mode.String(),
		"requested": in.Requested,
		"label":     label,
		"action":    "",
	}
	for name, v := range values {
		if err := s.compiled.Set(name, v); err != nil {
			return "", err
		}
	}
	if err := s.compiled.Run(); err != nil {
		return "", err
	}
	if !s.compiled.IsDefined("action") {
		return "", nil
	}
	return strings.TrimSpace(s.compiled.Get("action").String()), nil
}
