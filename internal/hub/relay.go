package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const relayChannelPrefix = "group:"

// Relay fans events out to other service instances over Redis pub/sub.
// Every instance tags its messages with its own id and ignores them on
// the way back in, so local subscribers see each event exactly once.
type Relay struct {
	rdb        *redis.Client
	instanceID string
}

func NewRelay(rdb *redis.Client) *Relay {
	return &Relay{
		rdb:        rdb,
		instanceID: uuid.New().String(),
	}
}

type relayEnvelope struct {
	Instance string          `json:"instance"`
	Data     json.RawMessage `json:"data"`
}

func (r *Relay) Publish(ctx context.Context, groupID uint, data []byte) error {
	payload, err := json.Marshal(relayEnvelope{Instance: r.instanceID, Data: data})
	if err != nil {
		return err
	}
	channel := relayChannelPrefix + strconv.FormatUint(uint64(groupID), 10)
	return r.rdb.Publish(ctx, channel, payload).Err()
}

// Listen consumes relayed events until ctx is cancelled, delivering
// foreign-instance events through deliver.
func (r *Relay) Listen(ctx context.Context, deliver func(groupID uint, data []byte)) {
	pubsub := r.rdb.PSubscribe(ctx, relayChannelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			groupID, err := strconv.ParseUint(strings.TrimPrefix(msg.Channel, relayChannelPrefix), 10, 64)
			if err != nil {
				slog.Error("Failed to parse group id from relay channel", "channel", msg.Channel, "error", err)
				continue
			}

			var envelope relayEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				slog.Error("Failed to decode relay envelope", "channel", msg.Channel, "error", err)
				continue
			}
			if envelope.Instance == r.instanceID {
				continue
			}
			deliver(uint(groupID), envelope.Data)
		}
	}
}
