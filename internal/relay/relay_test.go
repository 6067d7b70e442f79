package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/session"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/upstream"
)

type mockLink struct {
	mu        sync.Mutex
	ensures   int
	forwarded [][]byte
	frames    chan upstream.Frame
	state     upstream.State
	lastErr   error
}

func newMockLink() *mockLink {
	return &mockLink{
		frames: make(chan upstream.Frame, 100),
		state:  upstream.StateDisconnected,
	}
}

func (m *mockLink) EnsureConnected() {
	m.mu.Lock()
	m.ensures++
	m.state = upstream.StateReady
	m.mu.Unlock()
}

func (m *mockLink) Forward(payload []byte) {
	m.mu.Lock()
	m.forwarded = append(m.forwarded, append([]byte(nil), payload...))
	m.mu.Unlock()
}

func (m *mockLink) Frames() <-chan upstream.Frame { return m.frames }

func (m *mockLink) State() upstream.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockLink) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *mockLink) setState(s upstream.State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *mockLink) ensureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensures
}

func (m *mockLink) forwardedFrames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.forwarded))
	copy(out, m.forwarded)
	return out
}

type mockArchiver struct {
	mu     sync.Mutex
	frames [][]byte
}

func (m *mockArchiver) Archive(data []byte, receivedAt time.Time) {
	m.mu.Lock()
	m.frames = append(m.frames, append([]byte(nil), data...))
	m.mu.Unlock()
}

func (m *mockArchiver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

func testSessionConfig() session.Config {
	return session.Config{
		SendBuffer:   16,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
	}
}

// newWSSession builds a session over a real socket pair and returns the
// client side for observing deliveries.
func newWSSession(t *testing.T, cfg session.Config) (*session.Session, *websocket.Conn, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	sessionCh := make(chan *session.Session, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}

		sess := session.New(conn, cfg, nil)
		sess.Start()
		sessionCh <- sess
		<-sess.Done()
	}))

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("dial failed: %v", err)
	}

	sess := <-sessionCh
	cleanup := func() {
		sess.Close()
		client.Close()
		server.Close()
	}

	return sess, client, cleanup
}

func newTestRelay(link FeedLink, archiver Archiver) (*Relay, *session.Registry) {
	registry := session.NewRegistry()
	r := New(link, registry, archiver, Config{FeedAPIKey: "server-secret"}, nil)
	return r, registry
}

func TestRelay_ClientConnectEnsuresLink(t *testing.T) {
	link := newMockLink()
	r, registry := newTestRelay(link, nil)

	sess := session.New(nil, testSessionConfig(), nil)
	r.HandleClientConnect(sess)

	if registry.Len() != 1 {
		t.Errorf("registry has %d sessions, want 1", registry.Len())
	}
	if link.ensureCount() != 1 {
		t.Errorf("EnsureConnected called %d times, want 1", link.ensureCount())
	}
}

func TestRelay_ReconnectOnNextClient(t *testing.T) {
	link := newMockLink()
	r, _ := newTestRelay(link, nil)

	// First client brings the link up
	a := session.New(nil, testSessionConfig(), nil)
	r.HandleClientConnect(a)

	// Feed drops while A is attached; nothing re-dials on its own
	link.setState(upstream.StateDisconnected)

	// The next arrival is what triggers the re-dial
	b := session.New(nil, testSessionConfig(), nil)
	r.HandleClientConnect(b)

	if link.ensureCount() != 2 {
		t.Errorf("EnsureConnected called %d times, want 2", link.ensureCount())
	}
	if link.State() != upstream.StateReady {
		t.Errorf("link state = %s, want %s", link.State(), upstream.StateReady)
	}
}

func TestRelay_AuthIntercepted(t *testing.T) {
	link := newMockLink()
	r, _ := newTestRelay(link, nil)

	sess := session.New(nil, testSessionConfig(), nil)
	r.HandleClientConnect(sess)

	// Client tries to authenticate with its own credential
	r.HandleClientMessage(sess, []byte(`{"action":"auth","params":"client-junk-key"}`))

	frames := link.forwardedFrames()
	if len(frames) != 1 {
		t.Fatalf("forwarded %d frames, want 1", len(frames))
	}

	want := string(upstream.AuthFrame("server-secret"))
	if string(frames[0]) != want {
		t.Errorf("forwarded %q, want %q", frames[0], want)
	}
	if strings.Contains(string(frames[0]), "client-junk-key") {
		t.Error("client credential leaked upstream")
	}
}

func TestRelay_SubscribeForwardedVerbatim(t *testing.T) {
	link := newMockLink()
	r, _ := newTestRelay(link, nil)

	sess := session.New(nil, testSessionConfig(), nil)
	r.HandleClientConnect(sess)

	// Odd spacing and key order must survive untouched
	raw := []byte(`{ "params" : "T.AAPL,Q.MSFT" , "action" : "subscribe" }`)
	r.HandleClientMessage(sess, raw)

	frames := link.forwardedFrames()
	if len(frames) != 1 {
		t.Fatalf("forwarded %d frames, want 1", len(frames))
	}
	if string(frames[0]) != string(raw) {
		t.Errorf("forwarded %q, want byte-identical %q", frames[0], raw)
	}
}

func TestRelay_OtherClientFramesDropped(t *testing.T) {
	link := newMockLink()
	r, _ := newTestRelay(link, nil)

	sess := session.New(nil, testSessionConfig(), nil)
	r.HandleClientConnect(sess)

	inputs := [][]byte{
		[]byte(`{"action":"unsubscribe","params":"T.AAPL"}`),
		[]byte(`{"action":"shutdown"}`),
		[]byte(`{"params":"no action here"}`),
		[]byte(`not json at all`),
		[]byte(`[1,2,3]`),
		[]byte(``),
	}
	for _, in := range inputs {
		r.HandleClientMessage(sess, in)
	}

	if n := len(link.forwardedFrames()); n != 0 {
		t.Errorf("forwarded %d frames, want 0", n)
	}
}

func TestRelay_BroadcastVerbatim(t *testing.T) {
	link := newMockLink()
	r, _ := newTestRelay(link, nil)

	sessA, clientA, cleanupA := newWSSession(t, testSessionConfig())
	defer cleanupA()
	sessB, clientB, cleanupB := newWSSession(t, testSessionConfig())
	defer cleanupB()

	r.HandleClientConnect(sessA)
	r.HandleClientConnect(sessB)

	payload := `[{"ev":"T","sym":"AAPL","p":187.45,"s":100,"t":1705328200000}]`
	r.HandleUpstreamMessage(upstream.Frame{
		Data:       []byte(payload),
		ReceivedAt: time.Now(),
	})

	for name, client := range map[string]*websocket.Conn{"A": clientA, "B": clientB} {
		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := client.ReadMessage()
		if err != nil {
			t.Fatalf("client %s read failed: %v", name, err)
		}
		if string(msg) != payload {
			t.Errorf("client %s received %q, want %q", name, msg, payload)
		}
	}
}

func TestRelay_SlowClientDoesNotBlockOthers(t *testing.T) {
	link := newMockLink()
	r, _ := newTestRelay(link, nil)

	fast, fastClient, cleanup := newWSSession(t, testSessionConfig())
	defer cleanup()

	// Stalled subscriber: tiny buffer, no write pump draining it
	slowCfg := testSessionConfig()
	slowCfg.SendBuffer = 2
	slow := session.New(nil, slowCfg, nil)

	r.HandleClientConnect(fast)
	r.HandleClientConnect(slow)

	const total = 20
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; i++ {
			r.HandleUpstreamMessage(upstream.Frame{
				Data:       []byte(`[{"ev":"T","sym":"AAPL"}]`),
				ReceivedAt: time.Now(),
			})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on stalled session")
	}

	// The healthy subscriber got every frame
	for i := 0; i < total; i++ {
		fastClient.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := fastClient.ReadMessage(); err != nil {
			t.Fatalf("fast client read %d failed: %v", i, err)
		}
	}
}

func TestRelay_DisconnectLeavesLinkAlone(t *testing.T) {
	link := newMockLink()
	r, registry := newTestRelay(link, nil)

	sess := session.New(nil, testSessionConfig(), nil)
	r.HandleClientConnect(sess)
	r.HandleClientDisconnect(sess)

	if registry.Len() != 0 {
		t.Errorf("registry has %d sessions, want 0", registry.Len())
	}
	// Link stays as the connect left it: Ready, untouched by the departure
	if link.State() != upstream.StateReady {
		t.Errorf("link state = %s, want %s", link.State(), upstream.StateReady)
	}
	if link.ensureCount() != 1 {
		t.Errorf("EnsureConnected called %d times, want 1", link.ensureCount())
	}

	// Repeated disconnect is a no-op
	r.HandleClientDisconnect(sess)
	if registry.Len() != 0 {
		t.Errorf("registry has %d sessions after double disconnect, want 0", registry.Len())
	}
}

func TestRelay_Run(t *testing.T) {
	link := newMockLink()
	r, _ := newTestRelay(link, nil)

	sess, client, cleanup := newWSSession(t, testSessionConfig())
	defer cleanup()
	r.HandleClientConnect(sess)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() {
		runDone <- r.Run(ctx)
	}()

	payload := `[{"ev":"Q","sym":"TSLA","bp":242.00,"ap":242.02}]`
	link.frames <- upstream.Frame{Data: []byte(payload), ReceivedAt: time.Now()}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}
	if string(msg) != payload {
		t.Errorf("client received %q, want %q", msg, payload)
	}

	cancel()
	select {
	case err := <-runDone:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}

func TestRelay_ArchiverReceivesFrames(t *testing.T) {
	link := newMockLink()
	arch := &mockArchiver{}
	r, _ := newTestRelay(link, arch)

	// No sessions attached; archiving is independent of fan-out
	r.HandleUpstreamMessage(upstream.Frame{
		Data:       []byte(`[{"ev":"T","sym":"NVDA"}]`),
		ReceivedAt: time.Now(),
	})
	r.HandleUpstreamMessage(upstream.Frame{
		Data:       []byte(`[{"ev":"T","sym":"AMD"}]`),
		ReceivedAt: time.Now(),
	})

	if arch.count() != 2 {
		t.Errorf("archiver received %d frames, want 2", arch.count())
	}
}

func TestRelay_Stats(t *testing.T) {
	link := newMockLink()
	r, _ := newTestRelay(link, nil)

	st := r.Stats()
	if st.ActiveSessions != 0 {
		t.Errorf("ActiveSessions = %d, want 0", st.ActiveSessions)
	}
	if st.FeedState != upstream.StateDisconnected {
		t.Errorf("FeedState = %s, want %s", st.FeedState, upstream.StateDisconnected)
	}

	sess := session.New(nil, testSessionConfig(), nil)
	r.HandleClientConnect(sess)

	st = r.Stats()
	if st.ActiveSessions != 1 {
		t.Errorf("ActiveSessions = %d, want 1", st.ActiveSessions)
	}
	if st.FeedState != upstream.StateReady {
		t.Errorf("FeedState = %s, want %s", st.FeedState, upstream.StateReady)
	}
}
