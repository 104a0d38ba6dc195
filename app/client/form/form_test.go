package form

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"user-registration/app/client/config"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

type harness struct {
	form      *Form
	notifier  *recordingNotifier
	navigator *recordingNavigator
	logs      *observer.ObservedLogs
	loading   []bool
}

func newHarness(t *testing.T, endpoint string) *harness {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	h := &harness{
		notifier:  &recordingNotifier{},
		navigator: &recordingNavigator{},
		logs:      logs,
	}
	var mu sync.Mutex
	h.form = New(
		&config.Config{ServerEndpoint: endpoint, LandingRoute: "/"},
		h.notifier,
		h.navigator,
		zap.New(core),
		WithLoadingHook(func(loading bool) {
			mu.Lock()
			defer mu.Unlock()
			h.loading = append(h.loading, loading)
		}),
	)
	return h
}

func fillAlice(t *testing.T, f *Form) {
	t.Helper()
	require.NoError(t, f.HandleInput("username", "alice"))
	require.NoError(t, f.HandleInput("email", "a@x.com"))
	require.NoError(t, f.HandleInput("phone", "1234567890"))
	require.NoError(t, f.HandleInput("password", "secret"))
	require.NoError(t, f.HandleFile("image", "alice.png", pngHeader))
}

func TestForm_NewDraftIsEmpty(t *testing.T) {
	h := newHarness(t, "http://localhost")

	assert.Equal(t, Draft{}, h.form.Draft())
	assert.False(t, h.form.Loading())
	assert.Equal(t, ControlSubmitButton, h.form.SubmitControl())
}

func TestForm_HandleInput_UpdatesOnlyNamedField(t *testing.T) {
	h := newHarness(t, "http://localhost")
	fillAlice(t, h.form)

	require.NoError(t, h.form.HandleInput("email", "alice@example.com"))

	d := h.form.Draft()
	assert.Equal(t, "alice", d.Username)
	assert.Equal(t, "alice@example.com", d.Email)
	assert.Equal(t, "1234567890", d.Phone)
	assert.Equal(t, "secret", d.Password)
	require.NotNil(t, d.Image)
	assert.Equal(t, "alice.png", d.Image.Filename)
}

func TestForm_HandleInput_UnknownField(t *testing.T) {
	h := newHarness(t, "http://localhost")
	fillAlice(t, h.form)
	before := h.form.Draft()

	assert.ErrorIs(t, h.form.HandleInput("nickname", "al"), ErrUnknownField)
	assert.Error(t, h.form.HandleInput("image", "alice.png"))
	assert.ErrorIs(t, h.form.HandleFile("avatar", "alice.png", pngHeader), ErrUnknownField)
	assert.Equal(t, before, h.form.Draft())
}

func TestForm_HandleFile_Clear(t *testing.T) {
	h := newHarness(t, "http://localhost")
	require.NoError(t, h.form.HandleFile("image", "alice.png", pngHeader))
	require.NoError(t, h.form.HandleFile("image", "", nil))

	assert.Nil(t, h.form.Draft().Image)
}

func TestForm_Draft_ReturnsCopy(t *testing.T) {
	h := newHarness(t, "http://localhost")
	fillAlice(t, h.form)

	d := h.form.Draft()
	d.Image.Data[0] = 0
	d.Username = "mallory"

	again := h.form.Draft()
	assert.Equal(t, "alice", again.Username)
	assert.Equal(t, pngHeader, again.Image.Data)
}

func TestForm_Submit_Success(t *testing.T) {
	var (
		method, path string
		values       = map[string]string{}
		filename     string
		imageType    string
		image        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		if assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			for _, name := range []string{"username", "email", "phone", "password"} {
				values[name] = r.FormValue(name)
			}
			if f, fh, err := r.FormFile("image"); assert.NoError(t, err) {
				filename = fh.Filename
				imageType = fh.Header.Get("Content-Type")
				image, _ = io.ReadAll(f)
				_ = f.Close()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Registration successful","userId":"1","token":"t"}`))
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	fillAlice(t, h.form)

	outcome := h.form.Submit(context.Background())
	assert.Equal(t, Succeeded, outcome)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, RegisterPath, path)
	assert.Equal(t, map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"phone":    "1234567890",
		"password": "secret",
	}, values)
	assert.Equal(t, "alice.png", filename)
	assert.Equal(t, "image/png", imageType)
	assert.Equal(t, pngHeader, image)

	assert.Equal(t, []string{"Registration successful"}, h.notifier.successes)
	assert.Empty(t, h.notifier.errors)
	assert.Equal(t, []string{"/"}, h.navigator.routes)
	assert.Equal(t, Draft{}, h.form.Draft())
	assert.False(t, h.form.Loading())
	assert.Equal(t, []bool{true, false}, h.loading)
}

func TestForm_Submit_LoadingDuringRequest(t *testing.T) {
	var h *harness
	var loadingSeen atomic.Bool
	var controlSeen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loadingSeen.Store(h.form.Loading())
		controlSeen.Store(h.form.SubmitControl())
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Bad Request"}`))
	}))
	defer srv.Close()

	h = newHarness(t, srv.URL)
	fillAlice(t, h.form)

	assert.Equal(t, Rejected, h.form.Submit(context.Background()))
	assert.True(t, loadingSeen.Load())
	assert.Equal(t, ControlProgress, controlSeen.Load())
	assert.False(t, h.form.Loading())
	assert.Equal(t, ControlSubmitButton, h.form.SubmitControl())
}

func TestForm_Submit_RejectedShowsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"ValidationError: email is required"}`))
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	fillAlice(t, h.form)
	require.NoError(t, h.form.HandleInput("email", ""))
	before := h.form.Draft()

	assert.Equal(t, Rejected, h.form.Submit(context.Background()))
	assert.Equal(t, []string{"ValidationError: email is required"}, h.notifier.errors)
	assert.Empty(t, h.notifier.successes)
	assert.Empty(t, h.navigator.routes)
	assert.Equal(t, before, h.form.Draft())
	assert.False(t, h.form.Loading())
	assert.Equal(t, []bool{true, false}, h.loading)
}

func TestForm_Submit_RejectedPrefersExtraDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Fill the input properly","extraDetails":"phone must be exactly 10 characters"}`))
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	fillAlice(t, h.form)

	assert.Equal(t, Rejected, h.form.Submit(context.Background()))
	assert.Equal(t, []string{"phone must be exactly 10 characters"}, h.notifier.errors)
}

func TestForm_Submit_TransportErrorOnlyLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	h := newHarness(t, endpoint)
	fillAlice(t, h.form)
	before := h.form.Draft()

	assert.Equal(t, Failed, h.form.Submit(context.Background()))
	assert.Empty(t, h.notifier.successes)
	assert.Empty(t, h.notifier.errors)
	assert.Empty(t, h.navigator.routes)
	assert.Equal(t, before, h.form.Draft())
	assert.False(t, h.form.Loading())
	assert.Equal(t, []bool{true, false}, h.loading)
	assert.Equal(t, 1, h.logs.FilterMessage("failed to send register request").Len())
}

func TestForm_Submit_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`<html>ok</html>`))
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	fillAlice(t, h.form)

	assert.Equal(t, Failed, h.form.Submit(context.Background()))
	assert.Empty(t, h.notifier.successes)
	assert.Empty(t, h.notifier.errors)
	assert.Empty(t, h.navigator.routes)
	assert.Equal(t, "alice", h.form.Draft().Username)
	assert.False(t, h.form.Loading())
	assert.Equal(t, 1, h.logs.FilterMessage("failed to decode register response").Len())
}

func TestForm_Submit_WithoutImage(t *testing.T) {
	var hasImage bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			_, hasImage = r.MultipartForm.File["image"]
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Fill the input properly","extraDetails":"image is required"}`))
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	require.NoError(t, h.form.HandleInput("username", "alice"))

	assert.Equal(t, Rejected, h.form.Submit(context.Background()))
	assert.False(t, hasImage)
	assert.Equal(t, []string{"image is required"}, h.notifier.errors)
}

func TestForm_Submit_NoDeduplication(t *testing.T) {
	var count atomic.Int32
	arrived := make(chan struct{}, 2)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		arrived <- struct{}{}
		<-release
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Registration successful"}`))
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	fillAlice(t, h.form)

	var wg sync.WaitGroup
	outcomes := make([]Outcome, 2)
	for i := range outcomes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = h.form.Submit(context.Background())
		}(i)
	}

	// 两个请求都已经到达服务器，说明第二次提交没有被拦截
	for i := 0; i < 2; i++ {
		select {
		case <-arrived:
		case <-time.After(5 * time.Second):
			t.Fatal("second submission never reached the server")
		}
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(2), count.Load())
	assert.Equal(t, []Outcome{Succeeded, Succeeded}, outcomes)
	assert.Len(t, h.notifier.successes, 2)
	assert.Equal(t, Draft{}, h.form.Draft())
	assert.False(t, h.form.Loading())
}

func TestForm_Submit_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, Failed, h.form.Submit(ctx))
	assert.False(t, h.form.Loading())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "Outcome(9)", Outcome(9).String())
}
