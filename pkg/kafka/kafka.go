package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

const (
	LoanTopic = "loan-events"

	ReportingConsumerGroup = "reporting"
)

// Event types published by the circulation service.
const (
	EventLoanBorrowed     = "loan.borrowed"
	EventLoanReturned     = "loan.returned"
	EventLoanOverdueSweep = "loan.overdue-sweep"
)

// LoanEvent is the message shape on LoanTopic.
type LoanEvent struct {
	EventType    string    `json:"eventType"`
	LoanID       string    `json:"loanId,omitempty"`
	ItemID       string    `json:"itemId,omitempty"`
	MemberID     string    `json:"memberId,omitempty"`
	OverdueCount int       `json:"overdueCount,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer group loop until ctx is done. A rebalance
// returns from Consume, so the loop re-enters as sarama requires.
func Consume(ctx context.Context, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topic string) error {
	for {
		if err := consumer.Consume(ctx, []string{topic}, handler); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
