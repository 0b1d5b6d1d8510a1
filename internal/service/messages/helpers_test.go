package messages

import (
	"context"
	"crypto/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"uk.co.dudmesh.multisig/internal/model"
	"uk.co.dudmesh.multisig/internal/store"
	"uk.co.dudmesh.multisig/pkg/message"
)

var backends = []string{store.BackendSQLite, store.BackendBolt}

type testConfig struct {
	dataDir  string
	backend  string
	settings model.Settings
}

func (c testConfig) DataDirectory() string     { return c.dataDir }
func (c testConfig) StoreBackend() string      { return c.backend }
func (c testConfig) Settings() model.Settings { return c.settings }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Unix() uint64 {
	return uint64(c.Now().Unix())
}

func defaultSettings() model.Settings {
	return model.Settings{
		RetentionDuration: 720 * time.Hour,
		AcceptanceWindow:  24 * time.Hour,
	}
}

// newTestService opens a service on a fresh store in a temp dir. The backing
// store is returned too so tests can inspect or corrupt raw keys.
func newTestService(t *testing.T, backend string, clock *fakeClock) (*service, store.Store) {
	t.Helper()
	config := testConfig{dataDir: t.TempDir(), backend: backend, settings: defaultSettings()}

	backing, err := store.Open(config)
	require.NoError(t, err)

	svc, err := New(config, WithStore(backing), WithNow(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	return svc, backing
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func newMessage(t *testing.T, created uint64, addr []byte, size int) *message.UserMessage {
	return &message.UserMessage{
		Created:         created,
		Address:         addr,
		TransactionType: message.TransactionTypeVaultWithdraw,
		TransactionData: randomBytes(t, size),
	}
}

func indexedAddresses(t *testing.T, svc *service) int {
	t.Helper()
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	return stats.Addresses
}
