package ipc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
)

// Handler processes IPC requests from CLI clients.
// The daemon implements this interface.
type Handler interface {
	HandleStatus() StatusData
	HandleBuild() (BuildStatus, error)
	HandleEnable()
	HandleDisable()
}

// Daemon is the RPC service exposed to CLI clients.
// Method names become "Daemon.Status", "Daemon.Build", etc.
type Daemon struct {
	handler Handler
}

// Status returns the current daemon status.
func (d *Daemon) Status(_ *Empty, reply *StatusData) error {
	*reply = d.handler.HandleStatus()
	return nil
}

// Build reloads the configuration and runs a build.
func (d *Daemon) Build(_ *Empty, reply *BuildStatus) error {
	result, err := d.handler.HandleBuild()
	if err != nil {
		return err
	}
	*reply = result
	return nil
}

// Enable resumes reacting to change events.
func (d *Daemon) Enable(_ *Empty, _ *Empty) error {
	d.handler.HandleEnable()
	return nil
}

// Disable stops reacting to change events.
func (d *Daemon) Disable(_ *Empty, _ *Empty) error {
	d.handler.HandleDisable()
	return nil
}

// Server accepts IPC connections and serves RPC requests.
type Server struct {
	path      string
	listener  net.Listener
	rpcServer *rpc.Server
}

// NewServer creates an IPC server bound to the platform-appropriate socket.
func NewServer(handler Handler) (*Server, error) {
	sockPath, err := SocketPath()
	if err != nil {
		return nil, err
	}

	listener, err := listen(sockPath)
	if err != nil {
		return nil, err
	}

	// Create RPC server and register the Daemon service
	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName("Daemon", &Daemon{handler: handler}); err != nil {
		listener.Close()
		return nil, err
	}

	return &Server{
		path:      sockPath,
		listener:  listener,
		rpcServer: rpcServer,
	}, nil
}

// Serve accepts connections until the context is cancelled.
// Requests are processed serially (one at a time).
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
		cleanup(s.path)
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if we're shutting down
			if ctx.Err() != nil {
				break
			}
			// Log and continue on transient errors
			if !errors.Is(err, net.ErrClosed) {
				slog.Warn("ipc accept error", "error", err)
			}
			continue
		}

		// Handle connection serially (blocks until client disconnects)
		s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
	}

	return nil
}
