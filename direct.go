package wsbridge

import (
	"sync"

	"github.com/rs/zerolog"
)

// directDriver passes operations straight through to a TokenHost. No queue,
// event or pump exists in this mode; their absence is deliberate.
type directDriver struct {
	host   TokenHost
	logger zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

func (d *directDriver) Send(msg Message) error {
	return d.host.Send(msg.Type, msg.Payload)
}

func (d *directDriver) Wait() (Message, error) {
	typ, p, err := d.host.Receive()
	if err != nil {
		d.logger.Debug().Err(err).Msg("wsbridge: receive failed, treating as closed")
		return Message{}, ErrClosed
	}
	return Message{Type: typ, Payload: p}, nil
}

func (d *directDriver) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.host.Close()
	})
	return d.closeErr
}
