package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trattoria/internal/agent"
	"trattoria/internal/menu"
)

func testManagerTTL(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	catalog, err := menu.BuildCatalog(&menu.Definition{
		Restaurant: "Trattoria da Mario",
		Sections: []menu.SectionDefinition{
			{Name: "Caffetteria", Items: []menu.ItemDefinition{{Name: "Espresso", Price: 1.50}}},
		},
	})
	require.NoError(t, err)
	return NewManager(catalog, nil, agent.DefaultTuning(), "test-secret", ttl)
}

func testManager(t *testing.T) *Manager {
	return testManagerTTL(t, time.Hour)
}

func TestCreateAndResolve(t *testing.T) {
	m := testManager(t)

	sess, token, err := m.Create()
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, m.Count())

	resolved, err := m.Resolve(token)
	require.NoError(t, err)
	assert.Same(t, sess, resolved)
}

func TestResolveRejectsBadTokens(t *testing.T) {
	m := testManager(t)
	_, token, err := m.Create()
	require.NoError(t, err)

	_, err = m.Resolve("not-a-token")
	assert.Error(t, err)

	other := NewManager(nil, nil, agent.DefaultTuning(), "different-secret", time.Hour)
	_, err = other.Resolve(token)
	assert.Error(t, err, "tokens signed with another secret must not verify")
}

func TestResolveAfterClose(t *testing.T) {
	m := testManager(t)
	sess, token, err := m.Create()
	require.NoError(t, err)

	assert.True(t, m.Close(sess.ID))
	assert.False(t, m.Close(sess.ID))
	assert.Equal(t, 0, m.Count())

	_, err = m.Resolve(token)
	assert.Error(t, err, "a valid token for a closed session must not resolve")
}

func TestExpiredSessionIsEvictedOnLookup(t *testing.T) {
	m := testManagerTTL(t, 10*time.Millisecond)
	sess, token, err := m.Create()
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, ok := m.Get(sess.ID)
	assert.False(t, ok, "an expired session must not resolve")
	assert.Equal(t, 0, m.Count())

	_, err = m.Resolve(token)
	assert.Error(t, err)
}

func TestCreateSweepsExpiredSessions(t *testing.T) {
	m := testManagerTTL(t, 10*time.Millisecond)
	_, _, err := m.Create()
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, _, err = m.Create()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count(), "dead sessions must not pile up in the registry")
}

func TestDoSerializesAccess(t *testing.T) {
	m := testManager(t)
	sess, _, err := m.Create()
	require.NoError(t, err)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sess.Do(func(w *agent.Waiter) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}
