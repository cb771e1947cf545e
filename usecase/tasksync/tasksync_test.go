package tasksync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/usecase/tasksync"
)

// MockTaskStore mocks the remote task table.
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) ListAll(ctx context.Context) ([]domain.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskStore) Insert(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) UpdateByID(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockWeatherProvider mocks the conditions service.
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Current(ctx context.Context, location string) (*domain.WeatherSnapshot, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherSnapshot), args.Error(1)
}

func (m *MockWeatherProvider) DailyForecast(ctx context.Context, lat, lon float64) (*domain.Forecast, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Forecast), args.Error(1)
}

// MockSessionProvider mocks session resolution.
type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) CurrentSession(ctx context.Context) (*domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

// MockSnapshotSink mocks snapshot persistence.
type MockSnapshotSink struct {
	mock.Mock
}

func (m *MockSnapshotSink) Put(snapshot domain.WeatherSnapshot) error {
	args := m.Called(snapshot)
	return args.Error(0)
}

func newTestCore(store *MockTaskStore, weather *MockWeatherProvider, sessions *MockSessionProvider) *tasksync.Core {
	return tasksync.New(store, weather, sessions, nil, nil)
}

func seedTasks(ids ...string) []domain.Task {
	out := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Task{ID: id, OwnerID: "user-1", Title: "Task " + id})
	}
	return out
}

func TestCore_LoadAll(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	store.On("ListAll", ctx).Return(seedTasks("a", "b"), nil).Once()

	err := core.LoadAll(ctx)
	require.NoError(t, err)

	status, loadErr := core.LoadState()
	assert.Equal(t, tasksync.StatusSucceeded, status)
	assert.Empty(t, loadErr)

	tasks := core.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
	store.AssertExpectations(t)
}

func TestCore_LoadAll_Refetch(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	store.On("ListAll", ctx).Return(seedTasks("a"), nil).Once()
	store.On("ListAll", ctx).Return(seedTasks("a", "b", "c"), nil).Once()

	require.NoError(t, core.LoadAll(ctx))
	require.NoError(t, core.LoadAll(ctx))

	assert.Len(t, core.Tasks(), 3)
	store.AssertExpectations(t)
}

func TestCore_LoadAll_FailureKeepsCollection(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	store.On("ListAll", ctx).Return(seedTasks("a"), nil).Once()
	store.On("ListAll", ctx).Return(nil, errors.New("connection reset")).Once()

	require.NoError(t, core.LoadAll(ctx))
	err := core.LoadAll(ctx)
	require.Error(t, err)

	status, loadErr := core.LoadState()
	assert.Equal(t, tasksync.StatusFailed, status)
	assert.Equal(t, "connection reset", loadErr)

	// The collection still holds the last successful scan.
	tasks := core.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "a", tasks[0].ID)
}

func TestCore_AddTask_PrependsStoreRecord(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	store.On("ListAll", ctx).Return(seedTasks("old"), nil).Once()
	require.NoError(t, core.LoadAll(ctx))

	created := &domain.Task{ID: "srv-42", OwnerID: "user-1", Title: "Buy milk"}
	store.On("Insert", ctx, mock.MatchedBy(func(d domain.TaskDraft) bool {
		return d.Title == "Buy milk" && !d.CreatedAt.IsZero()
	})).Return(created, nil).Once()

	got, err := core.AddTask(ctx, domain.TaskDraft{Title: "  Buy milk  "})
	require.NoError(t, err)
	assert.Equal(t, "srv-42", got.ID)

	tasks := core.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "srv-42", tasks[0].ID, "new task must land at the front")
	assert.Equal(t, "old", tasks[1].ID)
	store.AssertExpectations(t)
}

func TestCore_AddTask_EmptyTitle(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := core.AddTask(ctx, domain.TaskDraft{Title: title})
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	}
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCore_AddTask_StoreFailureLeavesCollection(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	store.On("Insert", ctx, mock.Anything).Return(nil, errors.New("insert denied")).Once()

	_, err := core.AddTask(ctx, domain.TaskDraft{Title: "Doomed"})
	require.Error(t, err)
	assert.Empty(t, core.Tasks())
}

func TestCore_AddTask_OutdoorResolvesWeather(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	weather := new(MockWeatherProvider)
	core := newTestCore(store, weather, new(MockSessionProvider))

	created := &domain.Task{ID: "t1", Title: "Mow lawn", IsOutdoor: true, Location: "Oslo"}
	store.On("Insert", ctx, mock.Anything).Return(created, nil).Once()
	weather.On("Current", ctx, "Oslo").
		Return(&domain.WeatherSnapshot{Location: "Oslo", Condition: "Clear"}, nil).Once()

	_, err := core.AddTask(ctx, domain.TaskDraft{Title: "Mow lawn", IsOutdoor: true, Location: "Oslo"})
	require.NoError(t, err)

	entry, ok := core.WeatherState()["Oslo"]
	require.True(t, ok)
	assert.Equal(t, tasksync.StatusSucceeded, entry.Status)
	weather.AssertExpectations(t)
}

func TestCore_DeleteTask(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	store.On("ListAll", ctx).Return(seedTasks("a", "b", "c"), nil).Once()
	require.NoError(t, core.LoadAll(ctx))

	store.On("DeleteByID", ctx, "b").Return(nil).Once()
	require.NoError(t, core.DeleteTask(ctx, "b"))

	tasks := core.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "c", tasks[1].ID)
}

func TestCore_DeleteTask_RemoteFailureKeepsTask(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	store.On("ListAll", ctx).Return(seedTasks("a"), nil).Once()
	require.NoError(t, core.LoadAll(ctx))

	store.On("DeleteByID", ctx, "a").Return(domain.ErrTaskNotFound).Once()
	err := core.DeleteTask(ctx, "a")
	require.Error(t, err)
	assert.Len(t, core.Tasks(), 1)
}

func TestCore_SetCompleted_ReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	store.On("ListAll", ctx).Return(seedTasks("a", "b", "c"), nil).Once()
	require.NoError(t, core.LoadAll(ctx))

	updated := &domain.Task{ID: "b", OwnerID: "user-1", Title: "Task b", Completed: true}
	store.On("UpdateByID", ctx, "b", mock.MatchedBy(func(p domain.TaskPatch) bool {
		return p.Completed != nil && *p.Completed && p.Important == nil
	})).Return(updated, nil).Once()

	got, err := core.SetCompleted(ctx, "b", true)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	// Position never changes on update, only content.
	tasks := core.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "b", tasks[1].ID)
	assert.True(t, tasks[1].Completed)
	store.AssertExpectations(t)
}

func TestCore_SetImportant(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	updated := &domain.Task{ID: "a", Title: "Task a", Important: true}
	store.On("UpdateByID", ctx, "a", mock.MatchedBy(func(p domain.TaskPatch) bool {
		return p.Important != nil && *p.Important
	})).Return(updated, nil).Once()

	got, err := core.SetImportant(ctx, "a", true)
	require.NoError(t, err)
	assert.True(t, got.Important)
}

func TestCore_SetReminder(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	remindAt := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	updated := &domain.Task{ID: "a", Title: "Task a", ReminderDate: &remindAt}
	store.On("UpdateByID", ctx, "a", mock.MatchedBy(func(p domain.TaskPatch) bool {
		return p.ReminderDate != nil && p.ReminderDate.Equal(remindAt)
	})).Return(updated, nil).Once()

	got, err := core.SetReminder(ctx, "a", remindAt)
	require.NoError(t, err)
	require.NotNil(t, got.ReminderDate)
	assert.True(t, got.ReminderDate.Equal(remindAt))
}

func TestCore_Assign_UsesSessionIdentity(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	sessions := new(MockSessionProvider)
	core := newTestCore(store, new(MockWeatherProvider), sessions)

	sessions.On("CurrentSession", ctx).
		Return(&domain.Session{ID: "s1", UserID: "me"}, nil).Once()

	updated := &domain.Task{ID: "a", Title: "Task a", AssignedTo: "me"}
	store.On("UpdateByID", ctx, "a", mock.MatchedBy(func(p domain.TaskPatch) bool {
		return p.AssignedTo != nil && *p.AssignedTo == "me"
	})).Return(updated, nil).Once()

	// Requested target is ignored in favor of the session user.
	got, err := core.Assign(ctx, "a", "somebody-else")
	require.NoError(t, err)
	assert.Equal(t, "me", got.AssignedTo)
	store.AssertExpectations(t)
}

func TestCore_Assign_NoSession(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	sessions := new(MockSessionProvider)
	core := newTestCore(store, new(MockWeatherProvider), sessions)

	sessions.On("CurrentSession", ctx).Return(nil, domain.ErrSessionNotFound).Once()

	_, err := core.Assign(ctx, "a", "me")
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	store.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCore_MutationsRequireID(t *testing.T) {
	ctx := context.Background()
	core := newTestCore(new(MockTaskStore), new(MockWeatherProvider), new(MockSessionProvider))

	_, err := core.SetCompleted(ctx, "", true)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	err = core.DeleteTask(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestCore_Subscribe_NotifiedAfterMutations(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	var calls int
	core.Subscribe(func() { calls++ })

	store.On("ListAll", ctx).Return(seedTasks("a"), nil).Once()
	require.NoError(t, core.LoadAll(ctx))
	assert.Equal(t, 1, calls)

	store.On("DeleteByID", ctx, "a").Return(nil).Once()
	require.NoError(t, core.DeleteTask(ctx, "a"))
	assert.Equal(t, 2, calls)
}

func TestCore_Subscribe_NotNotifiedOnFailure(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	var calls int
	core.Subscribe(func() { calls++ })

	store.On("ListAll", ctx).Return(nil, errors.New("boom")).Once()
	require.Error(t, core.LoadAll(ctx))
	assert.Zero(t, calls)
}

func TestCore_Close_RejectsFurtherOperations(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	core.Close()

	assert.ErrorIs(t, core.LoadAll(ctx), tasksync.ErrClosed)
	_, err := core.AddTask(ctx, domain.TaskDraft{Title: "late"})
	assert.ErrorIs(t, err, tasksync.ErrClosed)
	assert.ErrorIs(t, core.DeleteTask(ctx, "a"), tasksync.ErrClosed)
	_, err = core.SetCompleted(ctx, "a", true)
	assert.ErrorIs(t, err, tasksync.ErrClosed)

	store.AssertNotCalled(t, "ListAll", mock.Anything)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCore_Close_Idempotent(t *testing.T) {
	core := newTestCore(new(MockTaskStore), new(MockWeatherProvider), new(MockSessionProvider))
	core.Close()
	core.Close()
	assert.ErrorIs(t, core.LoadAll(context.Background()), tasksync.ErrClosed)
}

func TestCore_Tasks_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := new(MockTaskStore)
	core := newTestCore(store, new(MockWeatherProvider), new(MockSessionProvider))

	store.On("ListAll", ctx).Return(seedTasks("a", "b"), nil).Once()
	require.NoError(t, core.LoadAll(ctx))

	tasks := core.Tasks()
	tasks[0].Title = "mutated"

	fresh := core.Tasks()
	assert.Equal(t, "Task a", fresh[0].Title)
}

func TestManager_OpenIsIdempotent(t *testing.T) {
	built := 0
	mgr := tasksync.NewManager(func(userID string) *tasksync.Core {
		built++
		return newTestCore(new(MockTaskStore), new(MockWeatherProvider), new(MockSessionProvider))
	}, nil)

	first := mgr.Open("u1")
	second := mgr.Open("u1")
	assert.Same(t, first, second)
	assert.Equal(t, 1, built)

	mgr.Open("u2")
	assert.Equal(t, 2, built)
}

func TestManager_ReleaseClosesCore(t *testing.T) {
	mgr := tasksync.NewManager(func(userID string) *tasksync.Core {
		return newTestCore(new(MockTaskStore), new(MockWeatherProvider), new(MockSessionProvider))
	}, nil)

	core := mgr.Open("u1")
	mgr.Release("u1")

	assert.ErrorIs(t, core.LoadAll(context.Background()), tasksync.ErrClosed)

	// A fresh open after release builds a new, usable core.
	again := mgr.Open("u1")
	assert.NotSame(t, core, again)
}

func TestManager_ShutdownClosesEverything(t *testing.T) {
	mgr := tasksync.NewManager(func(userID string) *tasksync.Core {
		return newTestCore(new(MockTaskStore), new(MockWeatherProvider), new(MockSessionProvider))
	}, nil)

	a := mgr.Open("u1")
	b := mgr.Open("u2")
	mgr.Shutdown()

	assert.ErrorIs(t, a.LoadAll(context.Background()), tasksync.ErrClosed)
	assert.ErrorIs(t, b.LoadAll(context.Background()), tasksync.ErrClosed)
}
