// Package broadcast provides typed one-to-many notification channels.
//
// The vault publishes change events through it and the secondary node
// publishes display updates, so presentation code can subscribe instead of
// polling:
//
//	b := broadcast.NewMemory[vault.Event](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	for ev := range sub.Receive() {
//		fmt.Println(ev.Type)
//	}
//
// Publish never blocks. A subscriber whose buffer is full drops its oldest
// pending value.
package broadcast
