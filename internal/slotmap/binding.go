package slotmap

// This is returned when a class name is read before the class has been
// defined, which is what "__classNameTDZError" reports
type TDZError struct {
	Name string
}

func (e *TDZError) Error() string {
	return ClassNameTDZText(e.Name)
}

// A class binding inside the closure that defines a class with class
// variables. Reading it is an error until "Define" has been called.
type ClassBinding[T any] struct {
	name    string
	value   T
	defined bool
}

func NewClassBinding[T any](name string) *ClassBinding[T] {
	return &ClassBinding[T]{name: name}
}

func (b *ClassBinding[T]) Define(value T) {
	b.value = value
	b.defined = true
}

func (b *ClassBinding[T]) Get() (T, error) {
	if !b.defined {
		var zero T
		return zero, &TDZError{Name: b.name}
	}
	return b.value, nil
}
