package mq

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, evt domain.TransactionEvent) error {
	p.log.Info().
		Str("transaction_id", evt.TransactionID).
		Str("owner", evt.Owner).
		Str("type", string(evt.Kind)).
		Str("amount", evt.Amount.String()).
		Str("balance", evt.Balance.String()).
		Time("date", evt.Timestamp).
		Msg("transaction committed")
	return nil
}
