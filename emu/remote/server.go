package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// WSPath is the HTTP path of the WebSocket endpoint.
const WSPath = "/mc6809"

type Config struct {
	TCPAddr string // raw TCP listen address, empty to disable
	WSAddr  string // WebSocket (HTTP) listen address, empty to disable
}

// Serve runs the configured listeners until ctx is done or one of them
// fails.
func Serve(ctx context.Context, cfg Config) error {
	if cfg.TCPAddr == "" && cfg.WSAddr == "" {
		return errors.New("remote: no listen address")
	}

	var lc net.ListenConfig
	var tcpln, wsln net.Listener
	if cfg.TCPAddr != "" {
		ln, err := lc.Listen(ctx, "tcp", cfg.TCPAddr)
		if err != nil {
			return fmt.Errorf("remote: %w", err)
		}
		tcpln = ln
	}
	if cfg.WSAddr != "" {
		ln, err := lc.Listen(ctx, "tcp", cfg.WSAddr)
		if err != nil {
			if tcpln != nil {
				tcpln.Close()
			}
			return fmt.Errorf("remote: %w", err)
		}
		wsln = ln
	}

	g, ctx := errgroup.WithContext(ctx)
	if tcpln != nil {
		modRemote.InfoZ("started TCP server").String("addr", tcpln.Addr().String()).End()
		g.Go(func() error { return ServeTCP(ctx, tcpln) })
	}
	if wsln != nil {
		modRemote.InfoZ("started WebSocket server").String("addr", wsln.Addr().String()+WSPath).End()
		g.Go(func() error { return serveHTTP(ctx, wsln) })
	}
	return g.Wait()
}

// ServeTCP accepts connections on ln until ctx is done, serving each client
// in its own goroutine. It closes ln and waits for the clients before
// returning.
func ServeTCP(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			ln.Close()
			return fmt.Errorf("remote: accept: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			stop := context.AfterFunc(ctx, func() { c.Close() })
			defer stop()
			serveConn(newTCPConn(c), c.RemoteAddr().String())
		}()
	}
}

func serveHTTP(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	stop := context.AfterFunc(ctx, func() { srv.Close() })
	defer stop()

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("remote: %w", err)
	}
	return nil
}

var wsUpgrader = websocket.Upgrader{} // use default options

// Handler returns the HTTP handler serving WebSocket clients on WSPath.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WSPath, serveWSClient)
	return mux
}

func serveWSClient(w http.ResponseWriter, r *http.Request) {
	c, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		modRemote.WarnZ("websocket upgrade failed").
			String("client", r.RemoteAddr).
			Error("err", err).
			End()
		return
	}

	stop := context.AfterFunc(r.Context(), func() { c.Close() })
	defer stop()
	serveConn(newWSConn(c), r.RemoteAddr)
}
