package datasource

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	downCalls     []string
	recoveryCalls []string
	downtimes     []time.Duration
}

func (n *recordingNotifier) SendDownNotification(endpoint, connectionName string, _ error) {
	n.downCalls = append(n.downCalls, endpoint+"/"+connectionName)
}

func (n *recordingNotifier) SendRecoveryNotification(
	endpoint, connectionName string,
	downtime time.Duration,
) {
	n.recoveryCalls = append(n.recoveryCalls, endpoint+"/"+connectionName)
	n.downtimes = append(n.downtimes, downtime)
}

// newTestRegistry wires a registry whose connection opener is faked:
// failFirst attempts fail before opens start succeeding. Sleeps are
// recorded instead of slept.
func newTestRegistry(
	t *testing.T,
	maxRetries int,
	failFirst int,
) (*Registry, *recordingNotifier, *int, *[]time.Duration) {
	t.Helper()

	notifier := &recordingNotifier{}
	registry := NewRegistry(RegistryOptions{
		MaxRetries: maxRetries,
		BaseDelay:  100 * time.Millisecond,
		Notifier:   notifier,
	})

	attempts := 0
	var delays []time.Duration

	registry.open = func(_ Config) (*gorm.DB, error) {
		attempts++
		if attempts <= failFirst {
			return nil, fmt.Errorf("connection refused (attempt %d)", attempts)
		}
		return &gorm.DB{}, nil
	}
	registry.sleep = func(d time.Duration) {
		delays = append(delays, d)
	}

	require.NoError(t, registry.Register(Config{Name: "main", Dsn: "postgres://test"}))

	return registry, notifier, &attempts, &delays
}

func Test_Register_FirstDatasource_BecomesDefault(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t, 3, 0)

	require.NoError(t, registry.Register(Config{Name: "feeds", Dsn: "postgres://feeds"}))

	assert.Equal(t, "main", registry.DefaultName())
	assert.ElementsMatch(t, []string{"main", "feeds"}, registry.Names())
}

func Test_Register_DuplicateName_ReturnsError(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t, 3, 0)

	err := registry.Register(Config{Name: "main", Dsn: "postgres://other"})

	assert.Error(t, err)
}

func Test_TryRecoverConnection_AlreadyInitialized_ReturnsImmediately(t *testing.T) {
	registry, _, attempts, _ := newTestRegistry(t, 3, 0)
	require.NoError(t, registry.Initialize("main"))
	before := *attempts

	recovered := registry.TryRecoverConnection("main")

	assert.True(t, recovered)
	assert.Equal(t, before, *attempts, "no initialize attempts on the fast path")
}

func Test_TryRecoverConnection_StoreNeverRecovers_MakesExactlyMaxRetriesAttempts(t *testing.T) {
	registry, _, attempts, _ := newTestRegistry(t, 4, 1000)

	recovered := registry.TryRecoverConnection("main")

	assert.False(t, recovered)
	assert.Equal(t, 4, *attempts)
}

func Test_TryRecoverConnection_RecoversOnThirdAttempt_MakesExactlyThreeAttempts(t *testing.T) {
	// a connection failing its first 2 initialize attempts with
	// maxRetries=3 must succeed after exactly 3 attempts
	registry, _, attempts, _ := newTestRegistry(t, 3, 2)

	recovered := registry.TryRecoverConnection("main")

	assert.True(t, recovered)
	assert.Equal(t, 3, *attempts)
}

func Test_TryRecoverConnection_BackoffDelays_GrowExponentially(t *testing.T) {
	registry, _, _, delays := newTestRegistry(t, 4, 1000)

	registry.TryRecoverConnection("main")

	// no sleep after the final attempt
	require.Len(t, *delays, 3)
	assert.Equal(t, 100*time.Millisecond, (*delays)[0])
	assert.Equal(t, 200*time.Millisecond, (*delays)[1])
	assert.Equal(t, 400*time.Millisecond, (*delays)[2])
}

func Test_HandleDatabaseError_StoreDown_SendsSingleDownNotification(t *testing.T) {
	registry, notifier, _, _ := newTestRegistry(t, 2, 1000)
	opErr := errors.New("connection refused")

	for range 5 {
		status := registry.HandleDatabaseError(opErr, "products.findAll", "main")
		assert.False(t, status.Recovered)
	}

	assert.Len(t, notifier.downCalls, 1, "exactly one down notification per outage")
	assert.Equal(t, "products.findAll/main", notifier.downCalls[0])
	assert.Empty(t, notifier.recoveryCalls)
}

func Test_HandleDatabaseError_DifferentOperations_NotifyIndependently(t *testing.T) {
	registry, notifier, _, _ := newTestRegistry(t, 2, 1000)
	opErr := errors.New("connection refused")

	registry.HandleDatabaseError(opErr, "products.findAll", "main")
	registry.HandleDatabaseError(opErr, "products.create", "main")

	assert.Len(t, notifier.downCalls, 2)
}

func Test_HandleDatabaseError_RecoverySucceeds_ReportsRecoveredWithoutRetryingOperation(t *testing.T) {
	registry, notifier, _, _ := newTestRegistry(t, 3, 0)

	status := registry.HandleDatabaseError(errors.New("broken pipe"), "products.findAll", "main")

	assert.True(t, status.Recovered)
	assert.Empty(t, notifier.downCalls, "no down notification when recovery succeeds")
}

func Test_OutageEpisode_DownThenRecoveryThenSecondOutage_NotifiesOncePerEpisode(t *testing.T) {
	registry, notifier, attempts, _ := newTestRegistry(t, 2, 1000)
	opErr := errors.New("connection refused")

	// first outage: repeated failures, one down notification
	for range 3 {
		registry.HandleDatabaseError(opErr, "products.findAll", "main")
	}
	require.Len(t, notifier.downCalls, 1)

	// the store comes back: next failed call recovers the connection
	*attempts = 10_000
	registry.HandleDatabaseError(opErr, "products.findAll", "main")

	// one successful operation closes the episode
	registry.RegisterSuccessfulOperation("products.findAll", "main")
	require.Len(t, notifier.recoveryCalls, 1)
	assert.Equal(t, "products.findAll/main", notifier.recoveryCalls[0])

	// further successes stay quiet
	registry.RegisterSuccessfulOperation("products.findAll", "main")
	assert.Len(t, notifier.recoveryCalls, 1)

	// a second outage produces exactly one new down notification
	*attempts = 0
	registry.markConnectionFailed("main", time.Now().UTC())
	for range 3 {
		registry.HandleDatabaseError(opErr, "products.findAll", "main")
	}
	assert.Len(t, notifier.downCalls, 2)
}

func Test_RegisterSuccessfulOperation_NoPriorFailure_SendsNothing(t *testing.T) {
	registry, notifier, _, _ := newTestRegistry(t, 2, 0)

	registry.RegisterSuccessfulOperation("products.findAll", "main")

	assert.Empty(t, notifier.downCalls)
	assert.Empty(t, notifier.recoveryCalls)
}

func Test_InitializeAll_AllDatasources_Initialized(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t, 3, 0)
	require.NoError(t, registry.Register(Config{Name: "feeds", Dsn: "postgres://feeds"}))

	err := registry.InitializeAll()

	require.NoError(t, err)
	for _, name := range registry.Names() {
		db, handleErr := registry.Handle(name)
		require.NoError(t, handleErr)
		assert.NotNil(t, db)
	}
}

func Test_Handle_UnregisteredDatasource_ReturnsError(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t, 2, 0)

	_, err := registry.Handle("missing")

	assert.Error(t, err)
}

func Test_Handle_EmptyName_ResolvesToDefault(t *testing.T) {
	registry, _, _, _ := newTestRegistry(t, 2, 0)
	require.NoError(t, registry.Initialize("main"))

	db, err := registry.Handle("")

	require.NoError(t, err)
	assert.NotNil(t, db)
}
