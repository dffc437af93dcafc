package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pkgkafka "github.com/cashflowgame/finance-service/pkg/kafka"
)

func init() {
	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Print financial events from Kafka as they arrive",
		Args:  cobra.NoArgs,
		RunE:  runEventsTail,
	}
	tailCmd.Flags().Bool("from-beginning", false, "start at the oldest retained event")
	tailCmd.Flags().String("group", "", "consumer group; commits offsets when set")

	historyCmd := &cobra.Command{
		Use:   "history AGGREGATE_ID",
		Short: "List the outbox entries recorded for a debt or player",
		Args:  cobra.ExactArgs(1),
		RunE:  runEventsHistory,
	}
	historyCmd.Flags().Int("limit", 100, "maximum entries to print")

	eventsCmd.AddCommand(tailCmd, historyCmd)
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the financial event log",
}

type tailedEvent struct {
	Key     string            `json:"key"`
	Headers map[string]string `json:"headers"`
	Payload json.RawMessage   `json:"payload"`
}

func runEventsTail(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled() {
		return errors.New("events tail needs KAFKA_BROKERS")
	}
	fromBeginning, _ := cmd.Flags().GetBool("from-beginning")
	group, _ := cmd.Flags().GetString("group")

	out := cmd.OutOrStdout()
	consumer, err := pkgkafka.NewConsumer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.ServiceName + "-tail",
		ConsumerGroup: group,
		FromBeginning: fromBeginning,
	}, cfg.Kafka.EventsTopic, func(_ context.Context, msg pkgkafka.Message) error {
		return printJSON(out, tailedEvent{Key: string(msg.Key), Headers: msg.Headers, Payload: msg.Value})
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer consumer.Close()

	return consumer.Start(cmd.Context())
}

func runEventsHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.outbox == nil {
		return errors.New("event history is only kept by the postgres store")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := a.outbox.ListByAggregate(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := printJSON(cmd.OutOrStdout(), tailedEvent{
			Key:     e.AggregateID,
			Headers: map[string]string{"event_type": e.EventType, "event_id": e.ID, "session_id": e.SessionID},
			Payload: e.Payload,
		}); err != nil {
			return err
		}
	}
	return nil
}
