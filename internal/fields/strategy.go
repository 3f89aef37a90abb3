package fields

// Strategy recovers one field from text. It reports false when it has
// nothing to offer so the next strategy in a Chain gets a turn.
type Strategy func(text string) (string, bool)

// Step is a named Strategy. Names show up in debug output.
type Step struct {
	Name string
	Run  Strategy
}

// Chain applies its steps in order until one yields a non-empty value.
type Chain []Step

// Apply returns the first non-empty value and the name of the step that
// produced it, or two empty strings.
func (c Chain) Apply(text string) (value, step string) {
	for _, s := range c {
		if s.Run == nil {
			continue
		}
		if v, ok := s.Run(text); ok && v != "" {
			return v, s.Name
		}
	}
	return "", ""
}

// Value is Apply without the step name.
func (c Chain) Value(text string) string {
	v, _ := c.Apply(text)
	return v
}
