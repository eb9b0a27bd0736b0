package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeObserver struct {
	mu     sync.Mutex
	routes []string
	codes  []int
}

func (f *fakeObserver) ObserveRequest(_ string, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append(f.routes, route)
	f.codes = append(f.codes, status)
}

func TestFromContextDefaultsToNoop(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	require.Same(t, logger, FromContext(WithLogger(context.Background(), logger)))
}

func TestNewLoggerFormats(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger(LoggerConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(LoggerConfig{Level: "nonsense"})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	obs := &fakeObserver{}

	r := chi.NewRouter()
	r.Use(InjectLogger(zap.New(core)))
	r.Use(RequestLogger(obs))
	r.Get("/ok/{id}", func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Debug("inside handler")
		_, _ = w.Write([]byte("hello"))
	})
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	for _, path := range []string{"/ok/42", "/missing", "/boom"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	inside := logs.FilterMessage("inside handler").All()
	require.Len(t, inside, 1)
	require.Equal(t, "/ok/42", inside[0].ContextMap()["path"])

	completed := logs.FilterMessage("request completed").All()
	require.Len(t, completed, 3)
	require.Equal(t, zapcore.InfoLevel, completed[0].Level)
	require.Equal(t, "/ok/{id}", completed[0].ContextMap()["route"])
	require.Equal(t, int64(5), completed[0].ContextMap()["bytes"])
	require.Equal(t, zapcore.WarnLevel, completed[1].Level)
	require.Equal(t, zapcore.ErrorLevel, completed[2].Level)

	require.Equal(t, []string{"/ok/{id}", "/missing", "/boom"}, obs.routes)
	require.Equal(t, []int{200, 404, 502}, obs.codes)
}
