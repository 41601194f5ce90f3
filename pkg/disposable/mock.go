package disposable

// NewMock returns a Mock that delegates every call to i until a stub is replaced.
func NewMock[T any](i Iterator[T]) *Mock[T] {
	return &Mock[T]{
		Iterator:  i,
		StubValue: i.Value,
		StubClose: i.Close,
		StubNext:  i.Next,
		StubReset: i.Reset,
		StubErr:   i.Err,
	}
}

// Mock is a test double for an Iterator that counts the Close calls it receives.
type Mock[T any] struct {
	Iterator  Iterator[T]
	StubValue func() T
	StubClose func() error
	StubNext  func() bool
	StubReset func() error
	StubErr   func() error

	CloseCalls int
}

func (m *Mock[T]) Close() error {
	m.CloseCalls++
	return m.StubClose()
}

func (m *Mock[T]) Next() bool {
	return m.StubNext()
}

func (m *Mock[T]) Reset() error {
	return m.StubReset()
}

func (m *Mock[T]) Err() error {
	return m.StubErr()
}

func (m *Mock[T]) Value() T {
	return m.StubValue()
}

// ResetClose restores the delegation of Close to the wrapped Iterator.
func (m *Mock[T]) ResetClose() {
	m.StubClose = m.Iterator.Close
}

func (m *Mock[T]) ResetNext() {
	m.StubNext = m.Iterator.Next
}

func (m *Mock[T]) ResetErr() {
	m.StubErr = m.Iterator.Err
}

func (m *Mock[T]) ResetValue() {
	m.StubValue = m.Iterator.Value
}

func (m *Mock[T]) ResetReset() {
	m.StubReset = m.Iterator.Reset
}
