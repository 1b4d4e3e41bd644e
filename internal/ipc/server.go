package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"btlinkd/internal/daemon"
	"btlinkd/internal/logging"
	"btlinkd/internal/policy"
)

// Server exposes daemon status via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}
	_ = os.Chmod(path, 0o700)

	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName("Btlinkd", &service{daemon: d}); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
		)
	}
}

// service implements the RPC methods.
type service struct {
	daemon *daemon.Daemon
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	st := s.daemon.Status()
	*resp = StatusResponse{
		Running:            st.Running,
		PID:                st.PID,
		SessionID:          st.SessionID,
		DeviceAddress:      st.Policy.DeviceAddress,
		AutoConnect:        st.Policy.AutoConnect,
		IdleTimeoutSeconds: int64(st.Policy.IdleTimeout / time.Second),
		ConsecutiveErrors:  st.Monitor.ConsecutiveErrors,
		ConnectsIssued:     st.Monitor.ConnectsIssued,
		DisconnectsIssued:  st.Monitor.DisconnectsIssued,
		PolicyPath:         st.PolicyPath,
		JournalPath:        st.JournalPath,
		LockPath:           st.LockPath,
	}
	if !st.Monitor.LastActivity.IsZero() {
		resp.SecondsSinceActivity = int64(time.Since(st.Monitor.LastActivity) / time.Second)
	}
	return nil
}

func (s *service) Policy(_ PolicyRequest, resp *PolicyResponse) error {
	st := s.daemon.Status()
	resp.Current = snapshotOf(st.Policy)
	resp.Backup = snapshotOf(s.daemon.BackupPolicy())
	return nil
}

func (s *service) Events(req EventsRequest, resp *EventsResponse) error {
	store := s.daemon.Journal()
	if store == nil {
		return errors.New("journal disabled")
	}
	events, err := store.Recent(context.Background(), req.Limit)
	if err != nil {
		return err
	}
	resp.Events = make([]EventRecord, 0, len(events))
	for _, e := range events {
		resp.Events = append(resp.Events, EventRecord{
			ID:        e.ID,
			SessionID: e.SessionID,
			Kind:      e.Kind,
			Device:    e.Device,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return nil
}

func snapshotOf(p policy.Policy) PolicySnapshot {
	return PolicySnapshot{
		InactivityTimeoutSeconds: int64(p.IdleTimeout / time.Second),
		AutoConnect:              p.AutoConnect,
		DeviceAddress:            p.DeviceAddress,
	}
}
