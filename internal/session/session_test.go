package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/schemagen/internal/analyzer"
)

func TestSession_ScopeContinues(t *testing.T) {
	s := NewSession("python", "")

	var names []string
	for range 2 {
		err := s.WithScope(func(scope *analyzer.Scope) error {
			names = append(names, scope.Next())
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"DataClass1", "DataClass2"}, names)

	info := s.Info()
	assert.Equal(t, 2, info.Runs)
	assert.Equal(t, 2, info.LastClass)

	s.Reset()
	assert.Equal(t, 0, s.Info().LastClass)
}

func TestSession_WithScopeReturnsError(t *testing.T) {
	s := NewSession("go", "models")
	boom := errors.New("boom")
	err := s.WithScope(func(*analyzer.Scope) error { return boom })
	assert.Same(t, boom, err)
}

func TestSession_SerializesCompilations(t *testing.T) {
	s := NewSession("python", "")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithScope(func(scope *analyzer.Scope) error {
				scope.Next()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Info().LastClass)
}

func TestManager_CreateGetRemove(t *testing.T) {
	m := NewManager(time.Hour, time.Hour)
	s := m.Create("python", "")

	assert.Same(t, s, m.Get(s.ID))
	assert.Equal(t, 1, m.Len())

	assert.True(t, m.Remove(s.ID))
	assert.False(t, m.Remove(s.ID))
	assert.Nil(t, m.Get(s.ID))
}

func TestManager_ExpiredSessionsAreDropped(t *testing.T) {
	m := NewManager(time.Hour, time.Millisecond)
	s := m.Create("python", "")
	time.Sleep(5 * time.Millisecond)

	assert.Nil(t, m.Get(s.ID))
	assert.Equal(t, 0, m.Len())
}

func TestManager_Cleanup(t *testing.T) {
	m := NewManager(time.Millisecond, time.Hour)
	a := m.Create("python", "")
	b := m.Create("go", "")
	time.Sleep(5 * time.Millisecond)

	assert.ElementsMatch(t, []string{a.ID, b.ID}, m.Cleanup())
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Cleanup())
}
