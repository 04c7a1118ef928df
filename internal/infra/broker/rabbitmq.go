package broker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	errBrokerDial    = errs.New("failed to dial broker")
	errBrokerChannel = errs.New("failed to open broker channel")
	errBrokerPublish = errs.New("failed to publish message")
)

const defaultDialTimeout = 3 * time.Second

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// Dialer opens a channel and returns the connection that owns it.
type Dialer func(ctx context.Context, url string, timeout time.Duration) (Channel, io.Closer, error)

// RabbitPublisher publishes relay events to a durable topic exchange.
// The routing key is the event topic.
type RabbitPublisher struct {
	url         string
	exchange    string
	dialTimeout time.Duration
	dial        Dialer
	logger      *slog.Logger

	mu   sync.Mutex
	conn io.Closer
	ch   Channel
}

func NewRabbitPublisher(cfg config.BrokerConfig, logger *slog.Logger) *RabbitPublisher {
	return newRabbitPublisher(cfg, DialAMQP, logger)
}

func newRabbitPublisher(cfg config.BrokerConfig, dial Dialer, logger *slog.Logger) *RabbitPublisher {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	return &RabbitPublisher{
		url:         cfg.URL,
		exchange:    cfg.Exchange,
		dialTimeout: timeout,
		dial:        dial,
		logger:      logger,
	}
}

// DialAMQP connects with a TCP and handshake timeout no longer than the
// caller's remaining deadline.
func DialAMQP(ctx context.Context, url string, timeout time.Duration) (Channel, io.Closer, error) {
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if timeout <= 0 {
		return nil, nil, context.DeadlineExceeded
	}

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Mark(err, errBrokerChannel)
	}
	return ch, conn, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, topic string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, topic, false, false, msg); err != nil {
		// Drop the channel so the next publish reconnects.
		p.reset()
		return errs.Mark(err, errBrokerPublish)
	}
	return nil
}

// channel lazily dials and declares the exchange. Caller holds mu.
func (p *RabbitPublisher) channel(ctx context.Context) (Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	ch, conn, err := p.dial(ctx, p.url, p.dialTimeout)
	if err != nil {
		if errs.Is(err, errBrokerChannel) {
			return nil, err
		}
		return nil, errs.Mark(err, errBrokerDial)
	}
	if err := ch.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Mark(err, errBrokerChannel)
	}

	p.conn, p.ch = conn, ch
	p.logger.Info("broker connected", "exchange", p.exchange)
	return ch, nil
}

func (p *RabbitPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, body []byte) error {
	p.logger.Info("event published", "topic", topic, "payload", string(body))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
