package wsbridge

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hostbridge/wsbridge/internal/poller"
	"github.com/hostbridge/wsbridge/internal/xsync"
)

const defaultHeartbeat = 3 * time.Second

// compatDriver drives a LegacyHost. Because the host's calls are
// connection-affine and its only safe receive is non-blocking, the driver
// runs a background pump that watches the connection descriptor and signals
// the readiness event, while Wait multiplexes outbound flushing and inbound
// receiving on the accepting goroutine.
//
// The pump and the driver share the descriptor but never touch it
// concurrently: the pump only observes readiness, the host performs all
// actual reads and writes.
type compatDriver struct {
	host      LegacyHost
	heartbeat time.Duration
	logger    zerolog.Logger

	out   *Queue
	ready *Event

	watch   *poller.Poller
	pumpErr <-chan error

	stopOnce sync.Once
	stopped  chan struct{}
	closeErr error
}

func newCompatDriver(host LegacyHost, heartbeat time.Duration, logger zerolog.Logger) (*compatDriver, error) {
	fd, err := host.Fd()
	if err != nil {
		return nil, fmt.Errorf("wsbridge: failed to resolve connection descriptor: %w", err)
	}
	watch, err := poller.New(fd)
	if err != nil {
		return nil, fmt.Errorf("wsbridge: failed to watch connection descriptor: %w", err)
	}

	d := &compatDriver{
		host:      host,
		heartbeat: heartbeat,
		logger:    logger,
		out:       NewQueue(),
		ready:     NewEvent(),
		watch:     watch,
		stopped:   make(chan struct{}),
	}
	d.pumpErr = xsync.Go(d.pump)
	d.logger.Debug().Msg("wsbridge: pump started")
	return d, nil
}

// pump sets the readiness event each time the descriptor becomes readable,
// looping until cancelled. After each signal it parks until Wait has
// consumed the event, so a descriptor that stays readable does not spin the
// loop. A watch failure terminates the pump exactly like cancellation; the
// descriptor is presumed invalid past that point.
func (d *compatDriver) pump() error {
	defer d.watch.Release()
	for {
		if err := d.watch.WaitRead(); err != nil {
			if !errors.Is(err, poller.ErrCancelled) {
				d.logger.Debug().Err(err).Msg("wsbridge: readiness watch ended")
			}
			return err
		}
		d.ready.Set()
		select {
		case <-d.ready.cleared():
		case <-d.stopped:
			return nil
		}
	}
}

// Send appends msg to the outbound queue and signals the readiness event so
// a pending Wait wakes to flush it. The queue is unbounded by design: the
// traffic at this layer is control-protocol scale, so enqueueing never
// applies backpressure and never fails.
func (d *compatDriver) Send(msg Message) error {
	d.out.Push(msg)
	d.ready.Set()
	return nil
}

func (d *compatDriver) Wait() (Message, error) {
	for {
		select {
		case <-d.stopped:
			return Message{}, ErrClosed
		default:
		}

		if d.ready.Wait(d.heartbeat) {
			d.ready.Clear()
			select {
			case <-d.stopped:
				return Message{}, ErrClosed
			default:
			}
			if err := d.flush(); err != nil {
				d.logger.Debug().Err(err).Msg("wsbridge: flush failed, treating as closed")
				d.stop(false)
				return Message{}, ErrClosed
			}
		}

		// Attempt one receive even when the event wait timed out, so the
		// host gets a regular chance to run its keepalive processing.
		p, err := d.host.ReceiveNonblocking()
		if err != nil {
			d.logger.Debug().Err(err).Msg("wsbridge: receive failed, treating as closed")
			d.stop(false)
			return Message{}, ErrClosed
		}
		if len(p) > 0 {
			return decodeReceived(p), nil
		}
	}
}

// flush transmits everything queued since the last wake, in FIFO order.
func (d *compatDriver) flush() error {
	for {
		msg, err := d.out.Pop()
		if err != nil {
			// Queue empty terminates the drain pass.
			return nil
		}
		if msg.Type == MessageBinary {
			err = d.host.SendBinary(msg.Payload)
		} else {
			err = d.host.SendText(msg.Payload)
		}
		if err != nil {
			return err
		}
	}
}

func (d *compatDriver) Close() error {
	d.stop(true)
	return d.closeErr
}

// stop cancels the pump and joins it. The readiness event is forced
// afterwards so a Wait suspended on it unblocks and observes the stop. The
// sync.Once makes teardown idempotent whether it originates from Close or
// from a receive failure inside Wait.
func (d *compatDriver) stop(disconnect bool) {
	d.stopOnce.Do(func() {
		if disconnect {
			d.closeErr = d.host.Disconnect()
		}
		close(d.stopped)
		d.watch.Cancel()
		<-d.pumpErr
		d.ready.Set()
		d.logger.Debug().Msg("wsbridge: pump stopped")
	})
}
