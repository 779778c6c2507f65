package services

import (
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultBroadcastConcurrency caps parallel sends during a fan-out.
const DefaultBroadcastConcurrency = 8

// Dispatch replicates one message to every recipient via send, with at
// most limit sends in flight. A failing recipient is logged and counted;
// iteration never stops early, so success+failed always equals
// len(recipients).
func Dispatch(recipients []int64, limit int, send func(chatID int64) error) (success, failed int) {
	if limit < 1 {
		limit = 1
	}
	var ok, bad atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for _, chatID := range recipients {
		chatID := chatID
		g.Go(func() error {
			if err := send(chatID); err != nil {
				log.Printf("broadcast to %d: %v", chatID, err)
				bad.Add(1)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(ok.Load()), int(bad.Load())
}
