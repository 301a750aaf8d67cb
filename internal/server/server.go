package server

import (
	"fmt"
	"net"
	"sync/atomic"

	"github.com/tunnelcheck/tunnelcheck/internal/request"
	"github.com/tunnelcheck/tunnelcheck/internal/response"
)

// Handler builds the response for one parsed request.
type Handler interface {
	ServeHTTP(w *response.Writer, r *request.Request)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(w *response.Writer, r *request.Request)

func (f HandlerFunc) ServeHTTP(w *response.Writer, r *request.Request) {
	f(w, r)
}

// Config is fixed at startup; the port never changes once the server is
// serving.
type Config struct {
	Host string // empty means all interfaces
	Port int
}

// Server owns the listening socket and drives the accept loop. Connections
// are processed strictly sequentially: one request is fully parsed, handled
// and answered before the next connection is accepted.
type Server struct {
	cfg      Config
	handler  Handler
	logger   Logger
	metrics  *Metrics
	listener net.Listener
	closed   atomic.Bool
}

func New(cfg Config, handler Handler, logger Logger) *Server {
	if logger == nil {
		logger = NullLogger{}
	}
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

// Listen binds the configured port on all interfaces. A port that is already
// taken comes back as a StartupError with PortInUse set so the caller can
// suggest the next port.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return newStartupError(s.cfg.Port, err)
	}

	s.listener = listener
	return nil
}

// Serve runs the accept loop until Close is called, in which case it returns
// nil. Listen must have succeeded first.
func (s *Server) Serve() error {
	if s.listener == nil {
		return fmt.Errorf("serve called before listen")
	}

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			s.logger.Error("accept failed", Field{"error", err})
			continue
		}

		// Sequential on purpose: the server exists to prove a tunnel
		// forwards one request/response round trip at a time.
		s.serveConn(conn)
	}
}

// Close stops the accept loop. Safe to call from a signal handler goroutine.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// Addr returns the bound address, useful when the port was chosen by the OS.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the actual listening port.
func (s *Server) Port() int {
	addr, ok := s.Addr().(*net.TCPAddr)
	if !ok {
		return s.cfg.Port
	}
	return addr.Port
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// PrintBanner emits the operator-facing startup banner: port, URL, and
// example client commands. Call it after Listen, before Serve.
func (s *Server) PrintBanner() {
	port := s.Port()
	fmt.Println("Starting tunnel test server...")
	fmt.Println("==================================================")
	fmt.Printf("Port: %d\n", port)
	fmt.Printf("URL: http://localhost:%d\n", port)
	fmt.Println("==================================================")
	fmt.Println("Ready to receive tunnel connections!")
	fmt.Println("Test commands:")
	fmt.Printf("   curl http://127.0.0.1:%d\n", port)
	fmt.Printf("   curl -X POST -d 'test data' http://127.0.0.1:%d/api\n", port)
	fmt.Println("")
	fmt.Println("Press Ctrl+C to stop...")
	fmt.Println("==================================================")
}
