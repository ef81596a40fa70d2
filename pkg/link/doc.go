// Package link carries messages between the primary and the secondary node.
//
// Two message shapes cross the link. A push carries the full batch of code
// snapshots from the primary:
//
//	{"codeInfos": [ ... ]}
//
// A control message travels from the secondary to the primary:
//
//	{"action": "requestUpdate"}
//	{"action": "incrementCounter", "secretId": "<credential id>"}
//
// Link is the sending side. Two implementations exist: an in-memory Pipe for
// tests and single-process setups, and HTTPLink, which POSTs encoded messages
// to the peer's Handler.
//
// Delivery is best effort. Callers check Reachable before sending and treat
// ErrUnreachable as "try again on the next tick".
package link
