// Package redis connects to Redis for publishing form updates across
// processes.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Connect retries the initial ping, and Healthcheck plugs into readiness
// checks. The client is handed to broadcast.NewRedisBroadcaster.
package redis
