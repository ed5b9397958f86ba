package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Subscription message types (graphql-transport-ws protocol).
const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
	msgPing           = "ping"
	msgPong           = "pong"
)

const subscribeQuery = `subscription {
  priceUpdates(orderBy: timestamp, orderDirection: desc, first: 10) {
    id asset price timestamp transactionHash
  }
}`

// ErrSubscriptionClosed is returned for operations on a closed subscription.
var ErrSubscriptionClosed = errors.New("subscription already closed")

// SubscriptionConfig configures a live record feed.
type SubscriptionConfig struct {
	URL              string
	HandshakeTimeout time.Duration // ack wait bound
	ReadTimeout      time.Duration // per-message read deadline
	BufferSize       int           // update channel capacity
}

// Subscription streams indexed price records over a GraphQL websocket.
// Each server push delivers the current newest records.
type Subscription struct {
	cfg    SubscriptionConfig
	logger *slog.Logger

	conn *websocket.Conn

	updates chan []PriceRecord
	errs    chan error
	done    chan struct{}

	// Write serialization
	writeMu sync.Mutex

	// State
	mu        sync.Mutex
	connected bool
	closed    bool
}

// NewSubscription creates a subscription client.
func NewSubscription(cfg SubscriptionConfig, logger *slog.Logger) *Subscription {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 5 * time.Minute
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 16
	}

	return &Subscription{
		cfg:     cfg,
		logger:  logger,
		updates: make(chan []PriceRecord, cfg.BufferSize),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
}

// wireMessage is one protocol frame.
type wireMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Connect dials the endpoint, performs the init/ack handshake, and sends
// the subscribe operation. The read loop runs until Close or a connection
// error.
func (s *Subscription) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSubscriptionClosed
	}
	s.mu.Unlock()

	dialer := websocket.Dialer{
		Subprotocols:     []string{"graphql-transport-ws"},
		HandshakeTimeout: s.cfg.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial subscription endpoint: %w", err)
	}
	s.conn = conn

	if err := s.send(wireMessage{Type: msgConnectionInit}); err != nil {
		conn.Close()
		return fmt.Errorf("send connection_init: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(s.cfg.HandshakeTimeout))
	var ack wireMessage
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return fmt.Errorf("read connection_ack: %w", err)
	}
	if ack.Type != msgConnectionAck {
		conn.Close()
		return fmt.Errorf("handshake reply type %q, want %q", ack.Type, msgConnectionAck)
	}

	opID := uuid.NewString()
	payload, err := json.Marshal(map[string]string{"query": subscribeQuery})
	if err != nil {
		conn.Close()
		return fmt.Errorf("marshal subscribe payload: %w", err)
	}
	if err := s.send(wireMessage{ID: opID, Type: msgSubscribe, Payload: payload}); err != nil {
		conn.Close()
		return fmt.Errorf("send subscribe: %w", err)
	}

	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()

	s.logger.Info("subscription established", "url", s.cfg.URL, "operation_id", opID)

	go s.readLoop()
	return nil
}

// Updates returns the channel of pushed record batches.
func (s *Subscription) Updates() <-chan []PriceRecord {
	return s.updates
}

// Errs returns the channel of connection errors.
func (s *Subscription) Errs() <-chan error {
	return s.errs
}

// IsConnected returns current connection state.
func (s *Subscription) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Close gracefully shuts the subscription down.
func (s *Subscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.connected = false
	s.mu.Unlock()

	close(s.done)
	if s.conn != nil {
		s.writeMu.Lock()
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		return s.conn.Close()
	}
	return nil
}

func (s *Subscription) send(msg wireMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *Subscription) readLoop() {
	defer close(s.updates)

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		var msg wireMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
			default:
				s.reportError(fmt.Errorf("read subscription message: %w", err))
			}
			return
		}

		switch msg.Type {
		case msgPing:
			if err := s.send(wireMessage{Type: msgPong}); err != nil {
				s.reportError(fmt.Errorf("send pong: %w", err))
				return
			}
		case msgNext:
			records, err := decodeNext(msg.Payload)
			if err != nil {
				s.reportError(err)
				return
			}
			select {
			case s.updates <- records:
			case <-s.done:
				return
			}
		case msgError:
			s.reportError(fmt.Errorf("subscription error: %s", msg.Payload))
			return
		case msgComplete:
			s.logger.Info("subscription completed by server")
			return
		default:
			s.logger.Debug("ignoring subscription message", "type", msg.Type)
		}
	}
}

func (s *Subscription) reportError(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

// decodeNext converts a next-frame payload into typed records.
func decodeNext(payload json.RawMessage) ([]PriceRecord, error) {
	var body struct {
		Data struct {
			PriceUpdates []struct {
				ID              string `json:"id"`
				Asset           string `json:"asset"`
				Price           string `json:"price"`
				Timestamp       string `json:"timestamp"`
				TransactionHash string `json:"transactionHash"`
			} `json:"priceUpdates"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: subscription payload: %v", ErrDecode, err)
	}

	records := make([]PriceRecord, 0, len(body.Data.PriceUpdates))
	for _, raw := range body.Data.PriceUpdates {
		record, err := priceUpdateWire{
			ID:              raw.ID,
			Asset:           raw.Asset,
			Price:           raw.Price,
			Timestamp:       raw.Timestamp,
			TransactionHash: raw.TransactionHash,
		}.convert()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
