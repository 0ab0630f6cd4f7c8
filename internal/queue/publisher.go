package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	dialTimeout    = 2 * time.Second
	publishTimeout = 5 * time.Second
	// redialBackoff is how long a failed dial keeps the broker marked down.
	redialBackoff = 5 * time.Second
	bufferSize    = 256
)

var (
	// ErrBufferFull is returned by Publish when the outbound buffer is full.
	ErrBufferFull = errors.New("event buffer full")
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("publisher closed")

	errBrokerDown = errors.New("broker marked down, skipping dial")
)

// PublishObserver is told about every publish attempt.
type PublishObserver interface {
	EventPublished(ok bool)
}

// Dialer opens a broker connection.
type Dialer func(url string) (*amqp.Connection, error)

func defaultDial(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
}

// PublisherOption customises a Publisher.
type PublisherOption func(*Publisher)

// WithDialer replaces the AMQP dialer.
func WithDialer(d Dialer) PublisherOption {
	return func(p *Publisher) { p.dial = d }
}

// WithBufferSize sets how many events may wait for the broker.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n > 0 {
			p.events = make(chan TestRideEvent, n)
		}
	}
}

// Publisher sends TestRideEvents to a durable queue on the default
// exchange.  Publish only enqueues; a single background goroutine owns the
// connection and makes one attempt per event.  After a failed dial the
// broker is considered down for redialBackoff and events fail without
// dialing, so a dead broker never slows callers.
type Publisher struct {
	url      string
	queue    string
	log      logrus.FieldLogger
	observer PublishObserver
	dial     Dialer
	now      func() time.Time

	events    chan TestRideEvent
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	// owned by the run goroutine
	conn    *amqp.Connection
	ch      *amqp.Channel
	downTil time.Time
}

// NewPublisher returns a started Publisher for queue at url.  observer may
// be nil.  Call Close to flush and release the connection.
func NewPublisher(url, queue string, log logrus.FieldLogger, observer PublishObserver, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		url:      url,
		queue:    queue,
		log:      log,
		observer: observer,
		dial:     defaultDial,
		now:      time.Now,
		events:   make(chan TestRideEvent, bufferSize),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Publish queues ev for delivery and returns at once.  It fails only when
// the buffer is full or the publisher is closed; delivery errors are
// logged and reported to the observer.
func (p *Publisher) Publish(_ context.Context, ev TestRideEvent) error {
	select {
	case <-p.done:
		return ErrPublisherClosed
	default:
	}
	select {
	case p.events <- ev:
		return nil
	default:
		p.observe(false)
		return ErrBufferFull
	}
}

// Close stops accepting events, flushes what is buffered and releases the
// broker connection.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	p.wg.Wait()
	return nil
}

func (p *Publisher) run() {
	defer p.wg.Done()
	defer p.reset()
	for {
		select {
		case ev := <-p.events:
			p.deliver(ev)
		case <-p.done:
			for {
				select {
				case ev := <-p.events:
					p.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) deliver(ev TestRideEvent) {
	err := p.publish(ev)
	p.observe(err == nil)
	if err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"event":      ev.Type,
			"booking_id": ev.BookingID,
		}).Warn("test ride event not delivered")
	}
}

func (p *Publisher) observe(ok bool) {
	if p.observer != nil {
		p.observer.EventPublished(ok)
	}
}

func (p *Publisher) publish(ev TestRideEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    uuid.NewString(),
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// channel returns an open channel, dialing when needed and allowed.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	if p.now().Before(p.downTil) {
		return nil, errBrokerDown
	}

	conn, err := p.dial(p.url)
	if err != nil {
		p.downTil = p.now().Add(redialBackoff)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		p.downTil = p.now().Add(redialBackoff)
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	p.log.WithField("queue", p.queue).Info("rabbitmq publisher connected")
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}
