package disposable_test

import (
	"errors"
	"fmt"
	"testing"

	"go.llib.dev/dispose/pkg/disposable"
	"go.llib.dev/dispose/pkg/errorkit"
	"go.llib.dev/dispose/pkg/signal"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
)

func ExampleForEach() {
	rows := disposable.IterableFunc[string](func() (disposable.Iterator[string], error) {
		return disposable.Open("db", []string{"row1", "row2", "row3"}, disposable.WithSink(signal.Discard)), nil
	})

	err := disposable.ForEach[string](rows, func(row string) error {
		fmt.Println(row)
		return nil
	})
	if err != nil {
		fmt.Println(err)
	}
	// Output:
	// row1
	// row2
	// row3
}

func TestForEach(t *testing.T) {
	s := testcase.NewSpec(t)

	var (
		elements = testcase.Let(s, func(t *testcase.T) []int { return []int{1, 2, 3} })
		mock     = testcase.Let(s, func(t *testcase.T) *disposable.Mock[int] {
			return disposable.NewMock[int](disposable.NewPlain[int]("plain", nil, elements.Get(t)))
		})
		iterable = testcase.Let(s, func(t *testcase.T) disposable.Iterable[int] {
			return disposable.IterableFunc[int](func() (disposable.Iterator[int], error) {
				return mock.Get(t), nil
			})
		})
		iteratedOnes = testcase.Let(s, func(t *testcase.T) []int { return nil })
		fnErr        = testcase.Let(s, func(t *testcase.T) error { return nil })
		fn           = testcase.Let(s, func(t *testcase.T) func(int) error {
			return func(n int) error {
				iteratedOnes.Set(t, append(iteratedOnes.Get(t), n))
				return fnErr.Get(t)
			}
		})
	)
	act := func(t *testcase.T) error {
		return disposable.ForEach(iterable.Get(t), fn.Get(t))
	}

	s.Then(`it will iterate over all the elements`, func(t *testcase.T) {
		t.Must.NoError(act(t))
		t.Must.Equal(elements.Get(t), iteratedOnes.Get(t))
	})

	s.Then(`it will release the iterator exactly once`, func(t *testcase.T) {
		t.Must.NoError(act(t))
		t.Must.Equal(1, mock.Get(t).CloseCalls)
	})

	s.And(`an error returned by the function`, func(s *testcase.Spec) {
		const expectedErr errorkit.Error = `boom`
		fnErr.LetValue(s, expectedErr)

		s.Then(`it will return the error unchanged`, func(t *testcase.T) {
			t.Must.Equal(expectedErr, act(t))
		})

		s.Then(`it will cancel the iteration`, func(t *testcase.T) {
			_ = act(t)
			t.Must.Equal([]int{1}, iteratedOnes.Get(t))
		})

		s.Then(`it will release the iterator exactly once`, func(t *testcase.T) {
			_ = act(t)
			t.Must.Equal(1, mock.Get(t).CloseCalls)
		})

		s.And(`the iterator fails to close as well`, func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				mock.Get(t).StubClose = func() error { return t.Random.Error() }
			})

			s.Then(`the function error is returned as is`, func(t *testcase.T) {
				t.Must.Equal(expectedErr, act(t))
				t.Must.Equal(1, mock.Get(t).CloseCalls)
			})
		})
	})

	s.And(`break error returned from the function`, func(s *testcase.Spec) {
		fnErr.LetValue(s, disposable.Break)

		s.Then(`it finish without an error`, func(t *testcase.T) {
			t.Must.NoError(act(t))
		})

		s.Then(`it will cancel the iteration`, func(t *testcase.T) {
			_ = act(t)
			t.Must.Equal([]int{1}, iteratedOnes.Get(t))
		})

		s.Then(`it will release the iterator exactly once`, func(t *testcase.T) {
			_ = act(t)
			t.Must.Equal(1, mock.Get(t).CloseCalls)
		})
	})

	s.And(`the iterator fails mid traversal`, func(s *testcase.Spec) {
		expectedErr := testcase.Let(s, func(t *testcase.T) error { return t.Random.Error() })
		mock.Let(s, func(t *testcase.T) *disposable.Mock[int] {
			return disposable.NewMock[int](disposable.NewFailing("failing", elements.Get(t), 2, expectedErr.Get(t)))
		})

		s.Then(`the failure is returned unchanged`, func(t *testcase.T) {
			err := act(t)
			t.Must.Equal(mock.Get(t).Err(), err)
			t.Must.ErrorIs(expectedErr.Get(t), err)
			t.Must.Equal([]int{1}, iteratedOnes.Get(t))
		})

		s.Then(`it will release the iterator exactly once`, func(t *testcase.T) {
			_ = act(t)
			t.Must.Equal(1, mock.Get(t).CloseCalls)
		})
	})

	s.And(`the iterator fails to close`, func(s *testcase.Spec) {
		expectedErr := testcase.Let(s, func(t *testcase.T) error { return t.Random.Error() })
		s.Before(func(t *testcase.T) {
			mock.Get(t).StubClose = func() error { return expectedErr.Get(t) }
		})

		s.Then(`the close error is returned`, func(t *testcase.T) {
			t.Must.Equal(expectedErr.Get(t), act(t))
			t.Must.Equal(elements.Get(t), iteratedOnes.Get(t))
		})
	})

	s.And(`the function panics`, func(s *testcase.Spec) {
		fn.Let(s, func(t *testcase.T) func(int) error {
			return func(n int) error { panic("boom") }
		})

		s.Then(`the panic propagates after the iterator is released`, func(t *testcase.T) {
			r := func() (r any) {
				defer func() { r = recover() }()
				_ = act(t)
				return nil
			}()
			t.Must.Equal("boom", r)
			t.Must.Equal(1, mock.Get(t).CloseCalls)
		})
	})

	s.And(`the iterable fails to create an iterator`, func(s *testcase.Spec) {
		expectedErr := testcase.Let(s, func(t *testcase.T) error { return t.Random.Error() })
		iterable.Let(s, func(t *testcase.T) disposable.Iterable[int] {
			return disposable.IterableFunc[int](func() (disposable.Iterator[int], error) {
				return nil, expectedErr.Get(t)
			})
		})

		s.Then(`the error is returned and nothing is released`, func(t *testcase.T) {
			t.Must.Equal(expectedErr.Get(t), act(t))
			t.Must.Equal(0, mock.Get(t).CloseCalls)
			t.Must.Empty(iteratedOnes.Get(t))
		})
	})
}

func TestForEach_nested(t *testing.T) {
	var (
		rec   = &signal.Recorder{}
		outer = disposable.NewMock[int](disposable.NewPlain[int]("outer", nil, []int{1, 2}, disposable.WithSink(rec)))
		inner []*disposable.Mock[int]
	)
	err := disposable.Drive[int](outer, func(o int) error {
		m := disposable.NewMock[int](disposable.NewPlain[int](fmt.Sprintf("inner-%d", o), nil, []int{10, 20}, disposable.WithSink(rec)))
		inner = append(inner, m)
		return disposable.Drive[int](m, func(int) error { return nil })
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, outer.CloseCalls)
	assert.Equal(t, 2, len(inner))
	for _, m := range inner {
		assert.Equal(t, 1, m.CloseCalls)
	}
	assert.Equal(t, []string{"inner-1:disposed", "inner-2:disposed", "outer:disposed"}, rec.Strings())
}

func TestDrive_closeError(t *testing.T) {
	var (
		bodyErr  = errors.New("body")
		closeErr = errors.New("close")
	)
	newIterator := func() *disposable.Plain[int] {
		return disposable.NewPlain[int]("rows", nil, []int{1, 2}, disposable.OnClose(func() error { return closeErr }))
	}

	t.Run("the body error is returned as is, when closing fails as well", func(t *testing.T) {
		itr := newIterator()
		err := disposable.Drive[int](itr, func(int) error { return bodyErr })
		assert.Equal(t, bodyErr, err)
		assert.True(t, itr.IsDisposed())
	})

	t.Run("the iterator failure is returned as is, when closing fails as well", func(t *testing.T) {
		itr := disposable.NewFailing[int]("rows", []int{1, 2}, 1, nil, disposable.OnClose(func() error { return closeErr }))
		err := disposable.Drive[int](itr, func(int) error { return nil })
		assert.Equal(t, error(disposable.ErrDomain), err)
		assert.True(t, itr.IsDisposed())
	})

	t.Run("the close error is returned when nothing else failed", func(t *testing.T) {
		err := disposable.Drive[int](newIterator(), func(int) error { return nil })
		assert.Equal(t, closeErr, err)
	})

	t.Run("the close error is returned after a Break", func(t *testing.T) {
		err := disposable.Drive[int](newIterator(), func(int) error { return disposable.Break })
		assert.Equal(t, closeErr, err)
	})
}

func TestCollect(t *testing.T) {
	t.Run("on failure, the collected elements are returned with the error", func(t *testing.T) {
		iterable := disposable.IterableFunc[int](func() (disposable.Iterator[int], error) {
			return disposable.NewFailing[int]("failing", []int{1, 2, 3}, 3, nil), nil
		})
		got, err := disposable.Collect[int](iterable)
		assert.ErrorIs(t, disposable.ErrDomain, err)
		assert.Equal(t, []int{1, 2}, got)
	})
}
