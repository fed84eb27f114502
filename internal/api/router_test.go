package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"cluster-facade-go/internal/config"
	"cluster-facade-go/internal/deployer"
	"cluster-facade-go/internal/k8s"
	"cluster-facade-go/internal/metrics"
	"cluster-facade-go/internal/promquery"
	"cluster-facade-go/internal/reporter"
)

type testEnv struct {
	clientset *fake.Clientset
	sink      *metrics.GaugeSink
	router    http.Handler
}

func newTestEnv(t *testing.T, prometheusURL string, pods ...runtime.Object) *testEnv {
	t.Helper()

	cs := fake.NewSimpleClientset(pods...)
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewRunningPodsSink(reg)
	require.NoError(t, err)

	cluster := k8s.NewWithClientset(cs, "default", 500, nil)
	cfg := &config.Config{RequestTimeout: 5 * time.Second}

	dep := deployer.NewDeployer(cluster, "flask-app", time.Second, nil)
	rep := reporter.NewReporter(cluster, promquery.NewClient(prometheusURL, time.Second, nil), sink, "running_pods", time.Second, nil)

	return &testEnv{
		clientset: cs,
		sink:      sink,
		router:    NewRouter(dep, rep, cluster, reg, cfg, nil),
	}
}

func (e *testEnv) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func runningPods(running, other int) []runtime.Object {
	var objs []runtime.Object
	for i := 0; i < running+other; i++ {
		phase := corev1.PodRunning
		if i >= running {
			phase = corev1.PodPending
		}
		objs = append(objs, &corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: fmt.Sprintf("pod-%d", i), Namespace: "default"},
			Status:     corev1.PodStatus{Phase: phase},
		})
	}
	return objs
}

func TestCreateDeploymentEndpoint(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	w := env.do(http.MethodPost, "/createDeployment/myapp1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Deployment myapp1 created successfully"}`, w.Body.String())

	_, err := env.clientset.AppsV1().Deployments("default").Get(context.Background(), "myapp1", metav1.GetOptions{})
	require.NoError(t, err)
}

func TestCreateDeploymentEndpointInvalidName(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	targets := []string{
		"/createDeployment/my-app",
		"/createDeployment/my%20app",
		"/createDeployment/my_app",
		"/createDeployment/%2561pp",
		"/createDeployment/app%252Dv1",
		"/createDeployment/a%2Fb",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			w := env.do(http.MethodPost, target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"detail":"Invalid deployment name. It must be alphanumeric."}`, w.Body.String())
		})
	}
	assert.Empty(t, env.clientset.Actions())
}

func TestCreateDeploymentEndpointDuplicate(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/createDeployment/web").Code)

	w := env.do(http.MethodPost, "/createDeployment/web")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestCreateDeploymentEndpointClusterDown(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")
	env.clientset.PrependReactor("create", "deployments", func(action k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})

	w := env.do(http.MethodPost, "/createDeployment/web")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error creating deployment: connection refused"}`, w.Body.String())
}

func TestCreateDeploymentEndpointRejectsGet(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	w := env.do(http.MethodGet, "/createDeployment/myapp1")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPromDetailsEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/query", r.URL.Path)
		assert.Equal(t, "running_pods", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"resultType":"vector","result":[]}}`))
	}))
	defer upstream.Close()

	env := newTestEnv(t, upstream.URL, runningPods(3, 2)...)

	w := env.do(http.MethodGet, "/getPromdetails")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"running_pods_count": 3,
		"prometheus_data": {"status":"success","data":{"resultType":"vector","result":[]}}
	}`, w.Body.String())
}

func TestPromDetailsEndpointStoreUnreachable(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1", runningPods(3, 2)...)

	w := env.do(http.MethodGet, "/getPromdetails")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"detail":"Error fetching Prometheus data: `)

	metricsBody := env.do(http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, metricsBody.Code)
	assert.Contains(t, metricsBody.Body.String(), "running_pods 3")
}

func TestPromDetailsEndpointClusterDown(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")
	env.clientset.PrependReactor("list", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("no route to host")
	})

	w := env.do(http.MethodGet, "/getPromdetails")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error listing pods: no route to host"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")
	env.sink.Set(metrics.RunningPods, 4)

	w := env.do(http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# HELP running_pods Number of running pods")
	assert.Contains(t, w.Body.String(), "running_pods 4")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodOptions, "/createDeployment/myapp1", nil)
	req.Header.Set("Origin", "http://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Empty(t, env.clientset.Actions())
}

func TestCORSPreflightAnyMethod(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	methods := []string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace,
	}
	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/getPromdetails", nil)
			req.Header.Set("Origin", "http://dashboard.example.com")
			req.Header.Set("Access-Control-Request-Method", method)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, method, w.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}

func TestCORSSimpleRequest(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://dashboard.example.com")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	w := env.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = env.do(http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

type downPinger struct{}

func (downPinger) Ping(ctx context.Context) error { return errors.New("unreachable") }

func TestReadyClusterDown(t *testing.T) {
	router := NewRouter(nil, nil, downPinger{}, prometheus.NewRegistry(), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"detail":"service unavailable"}`, w.Body.String())
}

func TestMetricsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewRunningPodsSink(reg)
	require.NoError(t, err)
	sink.Set(metrics.RunningPods, 2)

	router := NewMetricsRouter(reg, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running_pods 2")

	req = httptest.NewRequest(http.MethodPost, "/createDeployment/web", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
