package events

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/lottostack/lotto645/internal/lotto"
)

// Emitter publishes newly stored draw records over NATS so downstream
// consumers (report bots, dashboards) see rounds as they are crawled.
type Emitter struct {
	conn    *nats.Conn
	subject string
}

func NewEmitter(natsURL, subject string) (*Emitter, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Emitter{
		conn:    conn,
		subject: subject,
	}, nil
}

func (e *Emitter) EmitDraw(record *lotto.DrawRecord) error {
	data, err := record.MarshalBinary()
	if err != nil {
		return err
	}
	return e.conn.Publish(e.subject, data)
}

func (e *Emitter) Close() {
	if e.conn != nil {
		e.conn.Close()
	}
}
