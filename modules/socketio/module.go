// Package socketio provides the "socketio" consumer element. Every item it
// receives is emitted to a socket.io server as {"serial": n, "value": v}.
// The connection is opened when the pipeline starts and closed when it
// stops.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/element"
	"github.com/specialistvlad/framegraph/internal/payload"
	"github.com/specialistvlad/framegraph/internal/port"
	"github.com/specialistvlad/framegraph/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the element type with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("socketio", "Emits every item received on \"in\" to a socket.io server.", func() element.Unit {
		return New(Dial)
	})
}

// Settings is the element's configuration.
type Settings struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Client is the part of a socket.io connection the element uses.
type Client interface {
	Emit(event string, args ...any) error
	Close()
}

// DialFunc opens a connection described by s.
type DialFunc func(ctx context.Context, s Settings) (Client, error)

// SocketIO is the element's unit of work.
type SocketIO struct {
	settings *element.Settings[Settings]
	dial     DialFunc

	mu     sync.Mutex
	client Client
}

// New creates the element; dial opens connections on Start.
func New(dial DialFunc) *SocketIO {
	return &SocketIO{
		settings: element.NewSettings(Settings{Namespace: "/", Event: "frame", Timeout: 15 * time.Second}),
		dial:     dial,
	}
}

// Ports implements element.Unit.
func (s *SocketIO) Ports() []port.Decl {
	return []port.Decl{port.In("in", payload.Number)}
}

func (s *SocketIO) set(fn func(*Settings) error) error {
	return s.settings.Update(fn)
}

// Properties implements element.Configurable. Connection settings apply on
// the next start.
func (s *SocketIO) Properties() []element.Property {
	return []element.Property{
		element.StringProperty("url", "Server URL, such as \"http://localhost:3000/socket.io/\".",
			func() string { return s.settings.Load().URL },
			func(v string) error {
				return s.set(func(st *Settings) error {
					if _, err := url.Parse(v); err != nil {
						return err
					}
					st.URL = v
					return nil
				})
			}),
		element.StringProperty("namespace", "Namespace to join.",
			func() string { return s.settings.Load().Namespace },
			func(v string) error {
				return s.set(func(st *Settings) error {
					st.Namespace = v
					return nil
				})
			}),
		element.StringProperty("event", "Event name used for every item.",
			func() string { return s.settings.Load().Event },
			func(v string) error {
				if v == "" {
					return errors.New("event must not be empty")
				}
				return s.set(func(st *Settings) error {
					st.Event = v
					return nil
				})
			}),
		element.StringProperty("timeout", "How long Start waits for the connection.",
			func() string { return s.settings.Load().Timeout.String() },
			func(v string) error {
				d, err := time.ParseDuration(v)
				if err != nil {
					return err
				}
				if d <= 0 {
					return errors.New("timeout must be positive")
				}
				return s.set(func(st *Settings) error {
					st.Timeout = d
					return nil
				})
			}),
		element.BoolProperty("insecure_skip_verify", "Skip TLS certificate verification.",
			func() bool { return s.settings.Load().InsecureSkipVerify },
			func(v bool) error {
				return s.set(func(st *Settings) error {
					st.InsecureSkipVerify = v
					return nil
				})
			}),
	}
}

// Start implements element.Starter.
func (s *SocketIO) Start(ctx context.Context) error {
	st := s.settings.Load()
	if st.URL == "" {
		return errors.New("url is required")
	}
	c, err := s.dial(ctx, st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.client = c
	s.mu.Unlock()
	return nil
}

// Stop implements element.Stopper.
func (s *SocketIO) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	return nil
}

// Process implements element.Unit. A failed emit is reported as a warning;
// the frame still completes.
func (s *SocketIO) Process(_ context.Context, f *element.Frame) error {
	it, err := f.Consume("in")
	if err != nil {
		return err
	}
	s.mu.Lock()
	c := s.client
	s.mu.Unlock()
	if c == nil {
		return errors.New("not connected")
	}

	msg := map[string]any{"serial": it.Serial, "value": it.Value}
	if err := c.Emit(s.settings.Load().Event, msg); err != nil {
		return element.NonFatal(fmt.Errorf("emit frame %d: %w", it.Serial, err))
	}
	return nil
}

type sioClient struct {
	io *socket.Socket
}

func (c *sioClient) Emit(event string, args ...any) error {
	return c.io.Emit(event, args...)
}

func (c *sioClient) Close() {
	c.io.Disconnect()
}

// Dial connects to a socket.io server over the websocket transport and
// waits until the namespace is joined.
func Dial(ctx context.Context, st Settings) (Client, error) {
	logger := ctxlog.FromContext(ctx).With("url", st.URL, "namespace", st.Namespace)
	logger.Info("Connecting to socket.io server...")

	parsedURL, err := url.Parse(st.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("url %q needs a scheme and a host", st.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetReconnection(false)
	if st.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(st.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})
	io.Connect()

	timer := time.NewTimer(st.Timeout)
	defer timer.Stop()
	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &sioClient{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", st.Timeout)
	}
}
