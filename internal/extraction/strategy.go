package extraction

// Strategy is one stage of a cascade. Run reports ok=false when the stage
// found nothing, letting the cascade move on.
type Strategy[T any] struct {
	Name string
	Run  func(text string) (T, bool)
}

// Cascade is an ordered list of strategies; the first hit wins.
type Cascade[T any] []Strategy[T]

// Run tries each stage in order and returns the first value produced along
// with the producing stage's name. ok is false when every stage missed.
func (c Cascade[T]) Run(text string) (value T, stage string, ok bool) {
	for _, s := range c {
		if v, hit := s.Run(text); hit {
			return v, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// Stage returns the named stage, for tests and diagnostics.
func (c Cascade[T]) Stage(name string) (Strategy[T], bool) {
	for _, s := range c {
		if s.Name == name {
			return s, true
		}
	}
	return Strategy[T]{}, false
}
