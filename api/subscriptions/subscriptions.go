// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams indexed events over websocket as blocks commit.
package subscriptions

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vechain/vedao/api/restutil"
	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/logdb"
	"github.com/vechain/vedao/metrics"
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 7) / 10
	// subscribers send nothing but control frames
	maxMessageSize = 512
)

var (
	logger                   = log.WithContext("pkg", "subscriptions")
	metricActiveSubscription = metrics.LazyLoadGauge("api_active_websocket_count")
)

type Subscriptions struct {
	repo     *chain.Repository
	db       *logdb.LogDB
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(repo *chain.Repository, db *logdb.LogDB, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		repo: repo,
		db:   db,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") ||
					slices.Contains(allowedOrigins, strings.ToLower(origin))
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) handleEventSubscription(w http.ResponseWriter, req *http.Request) error {
	reader, err := parseEventReader(s.repo, s.db, req)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	defer s.wg.Done()

	metricActiveSubscription().Add(1)
	defer metricActiveSubscription().Add(-1)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied with an error
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Trace("websocket read", "err", err)
				return
			}
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-closed:
		case <-s.done:
		}
		cancel()
	}()

	err = s.pipe(ctx, conn, reader, closed)
	switch {
	case err != nil && ctx.Err() == nil:
		s.closeConn(conn, websocket.CloseInternalServerErr, err.Error())
	case isClosed(s.done):
		s.closeConn(conn, websocket.CloseGoingAway, "server shutdown")
	}
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader msgReader, closed <-chan struct{}) error {
	ticker := s.repo.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		msgs, hasMore, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-closed:
			return nil
		case <-ticker.C():
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		logger.Debug("failed to send close message", "err", err)
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Close ends all open subscriptions and waits for their handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("WS /subscriptions/event").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleEventSubscription))
}
