package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"golang.org/x/xerrors"

	"github.com/moratsam/logscan/eventlog"
	"github.com/moratsam/logscan/logset"
	"github.com/moratsam/logscan/snapshot"
)

var (
	// Compile-time checks for ensuring Receiver implements the capabilities
	// the core consumes.
	_ logset.Receiver        = (*Receiver)(nil)
	_ snapshot.SeqNoProvider = (*Receiver)(nil)
)

// Config encapsulates the configuration options for creating a new
// Kafka-backed receiver.
type Config struct {
	// An established Kafka client. The client's fetch settings size the
	// broker-side pre-fetching for all partition sessions.
	Client sarama.Client

	// The consumer used to open partition sessions. If not specified, one
	// is derived from Client.
	Consumer sarama.Consumer

	// The maximum time to wait for the broker to deliver a requested
	// record. If not specified, a default of 30s will be used instead.
	ReceiveTimeout time.Duration

	// A clock instance for generating time-related events. If not
	// specified, the default wall-clock will be used instead.
	Clock clock.Clock
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Client == nil && cfg.Consumer == nil {
		err = multierror.Append(err, xerrors.Errorf("kafka client has not been provided"))
	}
	if cfg.ReceiveTimeout == 0 {
		cfg.ReceiveTimeout = 30 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	return err
}

// session is one cached partition consumer positioned at the next sequence
// number it will deliver.
type session struct {
	pc        sarama.PartitionConsumer
	nextSeqNo int64
}

// Receiver implements a network-backed receiver on top of a Kafka cluster:
// log names map to topics and sequence numbers to partition offsets. One
// partition session is cached per coordinate and reused for as long as
// requests arrive in sequence, so that consecutive fetches of one range
// iterator are served from the session's pre-fetch buffer; a request that
// breaks the sequence abandons the session and opens a new one at the
// requested offset.
type Receiver struct {
	cfg      Config
	consumer sarama.Consumer

	mu       sync.Mutex
	sessions map[eventlog.Coordinate]*session
}

// NewReceiver returns a new Kafka-backed receiver instance using the
// provided config options.
func NewReceiver(cfg Config) (*Receiver, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("kafka receiver: config validation failed: %w", err)
	}

	consumer := cfg.Consumer
	if consumer == nil {
		var err error
		if consumer, err = sarama.NewConsumerFromClient(cfg.Client); err != nil {
			return nil, xerrors.Errorf("kafka receiver: creating consumer: %w", err)
		}
	}

	return &Receiver{
		cfg:      cfg,
		consumer: consumer,
		sessions: make(map[eventlog.Coordinate]*session),
	}, nil
}

// Close abandons all cached partition sessions and closes the consumer.
func (r *Receiver) Close() error {
	r.mu.Lock()
	for coord, sess := range r.sessions {
		sess.pc.AsyncClose()
		delete(r.sessions, coord)
	}
	r.mu.Unlock()
	return r.consumer.Close()
}

// Receive returns the record of the partition addressed by coord whose
// sequence number is startSeqNo. The pre-fetch size hint is not forwarded:
// the broker sizes its fetches from the client configuration and keeps the
// session's buffer filled ahead of the cursor.
//
// Concurrent calls are safe across coordinates. Calls for the same
// coordinate must be serialized by the caller; a range iterator already owns
// its partition's cursor exclusively, so this holds within one task.
func (r *Receiver) Receive(ctx context.Context, coord eventlog.Coordinate, startSeqNo, _ int64) (*eventlog.Record, error) {
	sess, err := r.sessionAt(coord, startSeqNo)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case msg, ok := <-sess.pc.Messages():
			if !ok {
				r.dropSession(coord, sess)
				return nil, xerrors.Errorf("kafka receiver %q/%d: session closed while awaiting seq no %d", coord.Name, coord.Partition, startSeqNo)
			}
			if msg.Offset < startSeqNo {
				// Stale pre-fetched message from before a seek; keep reading.
				continue
			}
			if msg.Offset > startSeqNo {
				r.dropSession(coord, sess)
				return nil, xerrors.Errorf("kafka receiver %q/%d: requested seq no %d but broker delivered %d", coord.Name, coord.Partition, startSeqNo, msg.Offset)
			}
			r.mu.Lock()
			sess.nextSeqNo = startSeqNo + 1
			r.mu.Unlock()
			return &eventlog.Record{
				Name:      coord.Name,
				Partition: coord.Partition,
				SeqNo:     msg.Offset,
				Timestamp: msg.Timestamp,
				Value:     msg.Value,
			}, nil
		case kerr := <-sess.pc.Errors():
			r.dropSession(coord, sess)
			return nil, kerr
		case <-r.cfg.Clock.After(r.cfg.ReceiveTimeout):
			r.dropSession(coord, sess)
			return nil, xerrors.Errorf("kafka receiver %q/%d: timed out awaiting seq no %d", coord.Name, coord.Partition, startSeqNo)
		case <-ctx.Done():
			r.dropSession(coord, sess)
			return nil, ctx.Err()
		}
	}
}

// SeqNoBounds returns the earliest available sequence number of the
// partition addressed by coord together with the offset one past the latest
// produced record.
func (r *Receiver) SeqNoBounds(coord eventlog.Coordinate) (int64, int64, error) {
	if r.cfg.Client == nil {
		return 0, 0, xerrors.Errorf("kafka receiver: seq no bounds require a kafka client")
	}
	earliest, err := r.cfg.Client.GetOffset(coord.Name, int32(coord.Partition), sarama.OffsetOldest)
	if err != nil {
		return 0, 0, xerrors.Errorf("kafka receiver %q/%d: oldest offset: %w", coord.Name, coord.Partition, err)
	}
	next, err := r.cfg.Client.GetOffset(coord.Name, int32(coord.Partition), sarama.OffsetNewest)
	if err != nil {
		return 0, 0, xerrors.Errorf("kafka receiver %q/%d: newest offset: %w", coord.Name, coord.Partition, err)
	}
	return earliest, next, nil
}

// Partitions returns the sorted list of partitions of the named topic.
func (r *Receiver) Partitions(name string) ([]int, error) {
	if r.cfg.Client == nil {
		return nil, xerrors.Errorf("kafka receiver: partition discovery requires a kafka client")
	}
	ids, err := r.cfg.Client.Partitions(name)
	if err != nil {
		return nil, xerrors.Errorf("kafka receiver: partitions of %q: %w", name, err)
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out, nil
}

// sessionAt returns a partition session positioned at startSeqNo, reusing the
// cached one when the request continues its sequence.
func (r *Receiver) sessionAt(coord eventlog.Coordinate, startSeqNo int64) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, keyExists := r.sessions[coord]; keyExists {
		if sess.nextSeqNo == startSeqNo {
			return sess, nil
		}
		sess.pc.AsyncClose()
		delete(r.sessions, coord)
	}

	pc, err := r.consumer.ConsumePartition(coord.Name, int32(coord.Partition), startSeqNo)
	if err != nil {
		return nil, xerrors.Errorf("kafka receiver %q/%d: opening session at seq no %d: %w", coord.Name, coord.Partition, startSeqNo, err)
	}
	sess := &session{pc: pc, nextSeqNo: startSeqNo}
	r.sessions[coord] = sess
	return sess, nil
}

func (r *Receiver) dropSession(coord eventlog.Coordinate, sess *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[coord] == sess {
		sess.pc.AsyncClose()
		delete(r.sessions, coord)
	}
}
