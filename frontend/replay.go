package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcapgo"
	"github.com/keymash/dropfilter/filter"
	"go.uber.org/zap"
)

// ReplayStats summarises one replay run. A packet counts as dropped when
// any hook in the chain drops it, mirroring how a tc classifier chain
// short-circuits on TC_ACT_SHOT.
type ReplayStats struct {
	Packets uint64
	Passed  uint64
	Dropped uint64
}

// Replay feeds a pcap stream through the hooks in order. Thresholds can
// be adjusted concurrently through the hooks' registers; the replay
// picks updates up mid-stream, which is the whole point of the shared
// store.
func Replay(ctx context.Context, logger *zap.SugaredLogger, r io.Reader, hooks []*filter.Hook) (*ReplayStats, error) {
	rd, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open pcap stream: %w", err)
	}

	stats := &ReplayStats{}

	for {
		select {
		case <-ctx.Done():
			logger.Infow("replay cancelled", "packets", stats.Packets)
			return stats, nil
		default:
		}

		data, _, err := rd.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}

		if err != nil {
			return stats, fmt.Errorf("failed to read packet %d: %w", stats.Packets, err)
		}

		pkt := gopacket.NewPacket(data, rd.LinkType(), gopacket.Lazy)

		stats.Packets++

		verdict := filter.Pass

		for _, h := range hooks {
			if h.Filter(pkt) == filter.Drop {
				verdict = filter.Drop
				break
			}
		}

		if verdict == filter.Drop {
			stats.Dropped++
		} else {
			stats.Passed++
		}
	}
}
