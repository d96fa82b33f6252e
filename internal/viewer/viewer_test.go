package viewer

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cerebrovinny/apihealth/internal/client"
	"github.com/Cerebrovinny/apihealth/internal/health"
)

func staticFetcher(status *health.Status, err error) client.Fetcher {
	return client.FetcherFunc(func(context.Context) (*health.Status, error) {
		return status, err
	})
}

// complete runs the model's fetch and applies the result.
func complete(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(m.fetch()())
	fm, ok := next.(Model)
	require.True(t, ok)
	return fm, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_InitialLoading(t *testing.T) {
	m := New(staticFetcher(nil, nil))

	assert.Equal(t, StateLoading, m.State())
	assert.True(t, m.Mounted())
	assert.Equal(t, "Checking API health...", Render(m.State(), m.Status(), m.Message()))
	assert.Contains(t, m.View(), "Checking API health...")
}

func TestModel_Success(t *testing.T) {
	m := New(staticFetcher(&health.Status{Status: "OK", App: "MyApp", Time: "2024-01-01T00:00:00.000Z"}, nil))

	m, cmd := complete(t, m)

	assert.Equal(t, StateSuccess, m.State())
	assert.True(t, isQuit(cmd))
	assert.Equal(t,
		"API Health\n  status: OK\n  app: MyApp\n  time: 2024-01-01T00:00:00.000Z",
		Render(m.State(), m.Status(), m.Message()))

	view := m.View()
	assert.Contains(t, view, "API Health")
	assert.Contains(t, view, "MyApp")
	assert.Contains(t, view, "2024-01-01T00:00:00.000Z")
}

func TestModel_ErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"http status", &client.StatusError{Code: http.StatusInternalServerError}, "API error: HTTP 500"},
		{"network failure", errors.New("Network request failed"), "API error: Network request failed"},
		{"decode failure", &client.DecodeError{Err: errors.New("invalid character '<'")}, "API error: invalid character '<'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := complete(t, New(staticFetcher(nil, tt.err)))

			assert.Equal(t, StateError, m.State())
			assert.True(t, isQuit(cmd))
			assert.Equal(t, tt.want, Render(m.State(), m.Status(), m.Message()))
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestModel_NilStatusWithoutError(t *testing.T) {
	m, _ := complete(t, New(staticFetcher(nil, nil)))

	assert.Equal(t, StateError, m.State())
	assert.Equal(t, "API error: empty response", Render(m.State(), m.Status(), m.Message()))
}

func TestModel_NilFetcher(t *testing.T) {
	m, _ := complete(t, New(nil))

	assert.Equal(t, StateError, m.State())
	assert.NotEmpty(t, m.Message())
}

func TestModel_MissingFields(t *testing.T) {
	m, _ := complete(t, New(staticFetcher(&health.Status{Status: "OK", App: "MyApp"}, nil)))

	require.Equal(t, StateSuccess, m.State())
	assert.Equal(t, "API Health\n  status: OK\n  app: MyApp\n  time: -", Render(m.State(), m.Status(), m.Message()))
	assert.NotPanics(t, func() { _ = m.View() })
}

func TestModel_TerminalState(t *testing.T) {
	m, _ := complete(t, New(staticFetcher(&health.Status{Status: "OK"}, nil)))

	next, cmd := m.Update(resultMsg{mountID: m.mount.id, err: errors.New("late failure")})
	fm := next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, StateSuccess, fm.State())
	assert.Empty(t, fm.Message())
}

func TestModel_UnmountDiscardsLateResult(t *testing.T) {
	started := make(chan struct{})
	var sawCancel atomic.Bool
	fetcher := client.FetcherFunc(func(ctx context.Context) (*health.Status, error) {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return &health.Status{Status: "OK"}, nil
	})

	m := New(fetcher)
	fetch := m.fetch()
	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- fetch() }()

	<-started
	m = m.Unmount()
	msg := <-msgs

	next, cmd := m.Update(msg)
	fm := next.(Model)

	assert.True(t, sawCancel.Load())
	assert.False(t, fm.Mounted())
	assert.Nil(t, cmd)
	assert.Equal(t, StateLoading, fm.State())
	assert.Nil(t, fm.Status())
}

func TestModel_IgnoresOtherMount(t *testing.T) {
	first := New(staticFetcher(&health.Status{Status: "OK", App: "first"}, nil))
	second := New(staticFetcher(&health.Status{Status: "OK", App: "second"}, nil))

	next, _ := second.Update(first.fetch()())
	fm := next.(Model)

	assert.Equal(t, StateLoading, fm.State())

	fm, _ = complete(t, fm)
	assert.Equal(t, "second", fm.Status().App)
}

func TestModel_InitIssuesOneFetch(t *testing.T) {
	var calls atomic.Int32
	fetcher := client.FetcherFunc(func(context.Context) (*health.Status, error) {
		calls.Add(1)
		return &health.Status{Status: "OK"}, nil
	})

	m := New(fetcher)
	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)

	results := 0
	for _, cmd := range batch {
		if cmd == nil {
			continue
		}
		if _, ok := cmd().(resultMsg); ok {
			results++
		}
	}

	assert.Equal(t, 1, results)
	assert.Equal(t, int32(1), calls.Load())
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		t.Run(key.String(), func(t *testing.T) {
			m := New(staticFetcher(nil, nil))

			next, cmd := m.Update(key)
			fm := next.(Model)

			assert.True(t, isQuit(cmd))
			assert.False(t, fm.Mounted())
		})
	}
}

func TestModel_StayOpen(t *testing.T) {
	m, cmd := complete(t, New(staticFetcher(&health.Status{Status: "OK"}, nil), WithStayOpen(true)))

	assert.Equal(t, StateSuccess, m.State())
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Press 'q' to quit.")
}

func TestModel_AgainstServer(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"status":"OK","app":"MyApp","time":"2024-01-01T00:00:00.000Z"}`,
			want:   "API Health\n  status: OK\n  app: MyApp\n  time: 2024-01-01T00:00:00.000Z",
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			want:   "API error: HTTP 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c, err := client.New(ts.URL)
			require.NoError(t, err)

			m, _ := complete(t, New(c))
			assert.Equal(t, tt.want, Render(m.State(), m.Status(), m.Message()))
		})
	}
}

func TestRunPlain(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		err := RunPlain(context.Background(), &buf, staticFetcher(&health.Status{Status: "OK", App: "MyApp", Time: "t"}, nil))

		require.NoError(t, err)
		assert.Equal(t, "Checking API health...\nAPI Health\n  status: OK\n  app: MyApp\n  time: t\n", buf.String())
	})

	t.Run("error", func(t *testing.T) {
		var buf bytes.Buffer
		err := RunPlain(context.Background(), &buf, staticFetcher(nil, &client.StatusError{Code: 503}))

		require.ErrorIs(t, err, ErrUnhealthy)
		assert.Equal(t, "Checking API health...\nAPI error: HTTP 503\n", buf.String())
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var buf bytes.Buffer
		err := RunPlain(ctx, &buf, client.FetcherFunc(func(ctx context.Context) (*health.Status, error) {
			return nil, ctx.Err()
		}))

		require.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrUnhealthy)
		assert.Equal(t, "Checking API health...\n", buf.String())
	})
}

func TestRun(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		err := Run(context.Background(), staticFetcher(&health.Status{Status: "OK", App: "MyApp"}, nil),
			WithInput(nil), WithOutput(&buf))

		require.NoError(t, err)
	})

	t.Run("error", func(t *testing.T) {
		var buf bytes.Buffer
		err := Run(context.Background(), staticFetcher(nil, errors.New("Network request failed")),
			WithInput(nil), WithOutput(&buf))

		require.ErrorIs(t, err, ErrUnhealthy)
		assert.Contains(t, err.Error(), "Network request failed")
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", State(42).String())
}
