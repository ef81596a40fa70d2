// Package redis connects to Redis and exposes it as a kvstore.Store, so a
// node can keep its credential collections or its last received snapshot
// batch in a shared Redis database.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := redis.NewStorageWithConfig(client, cfg)
//	defer store.Close()
//
// Storage.Healthcheck plugs into httpserver.HealthCheckHandler.
package redis
