package oscillator

import "fmt"

var constructors = map[Kind]func() Oscillator{
	KindHarmonic:         func() Oscillator { return NewDefaultHarmonic() },
	KindSimplePendulum:   func() Oscillator { return NewDefaultSimplePendulum() },
	KindCompoundPendulum: func() Oscillator { return NewDefaultCompoundPendulum() },
}

var aliases = map[string]Kind{
	"mas":      KindHarmonic,
	"shm":      KindHarmonic,
	"spring":   KindHarmonic,
	"pendulum": KindSimplePendulum,
	"simple":   KindSimplePendulum,
	"compound": KindCompoundPendulum,
	"physical": KindCompoundPendulum,
}

// Kinds lists the available systems in menu order.
func Kinds() []Kind {
	return []Kind{KindHarmonic, KindSimplePendulum, KindCompoundPendulum}
}

// ParseKind resolves a system name or one of its short aliases.
func ParseKind(name string) (Kind, error) {
	if _, ok := constructors[Kind(name)]; ok {
		return Kind(name), nil
	}
	if k, ok := aliases[name]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, name)
}

// New builds a system with its default parameters.
func New(kind Kind) (Oscillator, error) {
	fn, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return fn(), nil
}
