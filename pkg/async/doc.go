// Package async runs functions in goroutines and exposes their results as
// futures.
//
// Run is the building block:
//
//	f := async.Run(ctx, func(ctx context.Context) (int, error) {
//		return compute(ctx)
//	})
//	v, err := f.Await()
//
// Inflight is used for fire-and-forget sends that must still be drained on
// shutdown:
//
//	var sends async.Inflight
//	sends.Go(ctx, func(ctx context.Context) error { return link.Send(ctx, msg) })
//	...
//	sends.Wait()
package async
