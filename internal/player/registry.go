package player

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/palemoky/tennis/internal/apperrors"
	"github.com/palemoky/tennis/internal/game"
)

var registry = map[string]game.Factory{
	"random":        func(rng *rand.Rand) game.Strategy { return NewRandom(rng) },
	"random-any":    func(rng *rand.Rand) game.Strategy { return &Random{rng: rng} },
	"average-bid":   func(rng *rand.Rand) game.Strategy { return NewFixedBid(rng) },
	"aggressive":    func(rng *rand.Rand) game.Strategy { return NewAggressive(rng) },
	"passive":       func(*rand.Rand) game.Strategy { return NewPassive() },
	"goal-tracking": func(*rand.Rand) game.Strategy { return NewGoalTracking() },
	"pair-planner":  func(rng *rand.Rand) game.Strategy { return NewPairPlanner(rng) },
}

// Lookup returns the factory registered under name. Names are case-insensitive.
func Lookup(name string) (game.Factory, error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%q (known: %s): %w", name, strings.Join(Names(), ", "), apperrors.ErrUnknownStrategy)
	}
	return f, nil
}

// New builds a fresh strategy by name.
func New(name string, rng *rand.Rand) (game.Strategy, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return f(rng), nil
}

// Names lists the registered strategies in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
