package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wilfred007/ink-project/internal/handler"
	"github.com/Wilfred007/ink-project/internal/model"
	"github.com/Wilfred007/ink-project/internal/service"
	"github.com/Wilfred007/ink-project/internal/snapshot"
	"github.com/Wilfred007/ink-project/internal/store"
)

func setupE2EServer(t *testing.T, taskService *service.TaskService) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()
	taskHandler := handler.NewTaskHandler(taskService, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Get("/{id}", taskHandler.Get)
		r.Post("/{id}/complete", taskHandler.Complete)
		r.Delete("/{id}", taskHandler.Delete)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func createTask(t *testing.T, server *httptest.Server, description string) uint32 {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"description": description})
	resp, err := http.Post(server.URL+"/api/tasks", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID uint32 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created.ID
}

func listTasks(t *testing.T, server *httptest.Server) []model.Task {
	t.Helper()

	resp, err := http.Get(server.URL + "/api/tasks")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	return tasks
}

func TestE2E_FullWorkflow(t *testing.T) {
	taskService := service.NewTaskService(store.New())
	server := setupE2EServer(t, taskService)

	// 1. Add a task
	id := createTask(t, server, "Buy milk")
	assert.Equal(t, uint32(0), id)

	// 2. List shows exactly that task
	tasks := listTasks(t, server)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.Task{ID: 0, Description: "Buy milk"}, tasks[0])

	// 3. Complete it
	resp, err := http.Post(fmt.Sprintf("%s/api/tasks/%d/complete", server.URL, id), "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// 4. Get shows it completed
	resp, err = http.Get(fmt.Sprintf("%s/api/tasks/%d", server.URL, id))
	require.NoError(t, err)
	var fetched model.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, model.Task{ID: 0, Description: "Buy milk", Completed: true}, fetched)

	// 5. Remove it
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/tasks/%d", server.URL, id), nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// 6. List is empty, Get is 404
	assert.Empty(t, listTasks(t, server))

	resp, err = http.Get(fmt.Sprintf("%s/api/tasks/%d", server.URL, id))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// 7. A later add does not reuse the removed id
	assert.Equal(t, uint32(1), createTask(t, server, "Walk dog"))
}

func TestE2E_Persistence(t *testing.T) {
	pool, cleanup := SetupTestDB(t)
	defer cleanup()
	TruncateTables(t, pool)

	logger := zap.NewNop()
	snaps := snapshot.NewPostgresStore(pool)

	// First "process": mutate state and shut down cleanly.
	first := service.NewTaskService(store.New())
	writer := snapshot.NewWriter(first, snaps, logger, time.Hour)
	writer.Start(context.Background())

	server := setupE2EServer(t, first)
	milkID := createTask(t, server, "Buy milk")
	dogID := createTask(t, server, "Walk dog")

	resp, err := http.Post(fmt.Sprintf("%s/api/tasks/%d/complete", server.URL, milkID), "", nil)
	require.NoError(t, err)
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/tasks/%d", server.URL, dogID), nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	writer.Stop() // final flush

	// Second "process": restore from the snapshot.
	state, err := snaps.Load(context.Background())
	require.NoError(t, err)

	second := service.NewTaskService(store.New())
	second.Restore(state)
	server2 := setupE2EServer(t, second)

	tasks := listTasks(t, server2)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.Task{ID: milkID, Description: "Buy milk", Completed: true}, tasks[0])

	// The counter survived too: no id reuse after restart.
	assert.Equal(t, uint32(2), createTask(t, server2, "Water plants"))
}

func TestE2E_PeriodicSnapshot(t *testing.T) {
	pool, cleanup := SetupTestDB(t)
	defer cleanup()
	TruncateTables(t, pool)

	taskService := service.NewTaskService(store.New())
	snaps := snapshot.NewPostgresStore(pool)
	writer := snapshot.NewWriter(taskService, snaps, zap.NewNop(), 50*time.Millisecond)
	writer.Start(context.Background())
	defer writer.Stop()

	server := setupE2EServer(t, taskService)
	createTask(t, server, "Buy milk")

	flushed := WaitForCondition(t, 10*time.Second, func() bool {
		var count int
		pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM tasks").Scan(&count)
		return count == 1
	})
	assert.True(t, flushed, "ticker should have persisted the task")
}
