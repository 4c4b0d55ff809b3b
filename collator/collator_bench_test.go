package collator_test

import (
	"testing"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/channel"
	"github.com/momentics/hioload-collator/collator"
)

func BenchmarkProcess(b *testing.B) {
	em := channel.NewEmitter(channel.WithCapacity(1 << 16))
	c, err := collator.New(em)
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()

	const batch = 256
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < batch; j++ {
			id := api.ConnectionID(j % 32)
			switch j % 4 {
			case 0:
				em.Accepted(id, "tcp://127.0.0.1:5560")
			case 1, 2:
				em.QueueDepth(id, uint64(j))
			default:
				em.Disconnected(id)
			}
		}
		if n, err := c.Process(); err != nil || n != batch {
			b.Fatalf("Process=%d, %v", n, err)
		}
	}
}
