package session

import (
	"log"
	"net"

	"github.com/ansochnev/join-server/internal/interp"
	"github.com/ansochnev/join-server/internal/store"
)

// Server accepts TCP connections and spawns one goroutine per client,
// matching the concurrency model's "one worker per connected client".
type Server struct {
	listener net.Listener
	store    *store.Store
	logger   *log.Logger
}

func NewServer(listener net.Listener, st *store.Store, logger *log.Logger) *Server {
	return &Server{listener: listener, store: st, logger: logger}
}

// Run accepts connections until the listener is closed.
func (srv *Server) Run() error {
	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			return err
		}
		go func() {
			defer conn.Close()
			s := New(conn, interp.New(srv.store), srv.logger)
			srv.logger.Printf("session %s: connected from %s", s.ID, conn.RemoteAddr())
			s.Run()
			srv.logger.Printf("session %s: disconnected", s.ID)
		}()
	}
}
