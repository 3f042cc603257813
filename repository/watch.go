package repository

import (
	"context"
	"log"

	"github.com/kriswind/everything-app/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// watchCollection implements the live query subscription protocol: after an
// immediate initial snapshot, every change observed on the collection
// triggers a whole-collection re-read delivered through reload. The returned
// cancel handle stops the stream; reload is never invoked after it returns.
//
// Change stream delete events carry only the document key, so the stream is
// not filtered per user; reload re-queries with the user filter instead.
func watchCollection(ctx context.Context, coll *mongo.Collection, name string, reload func(context.Context) error) (func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := coll.Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, err
	}

	utils.TrackSubscriptionOpened(name)

	go func() {
		defer stream.Close(context.Background())
		defer utils.TrackSubscriptionClosed(name)

		// Change streams only deliver subsequent events, so push the
		// current contents first.
		if err := reload(streamCtx); err != nil && streamCtx.Err() == nil {
			log.Printf("initial %s snapshot failed: %v", name, err)
		}

		for stream.Next(streamCtx) {
			if err := reload(streamCtx); err != nil {
				if streamCtx.Err() != nil {
					return
				}
				log.Printf("%s snapshot reload failed: %v", name, err)
			}
		}

		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			log.Printf("%s change stream ended: %v", name, err)
		}
	}()

	return cancel, nil
}
