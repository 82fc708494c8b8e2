// Package spsc provides a bounded, lock-free single-producer single-consumer
// FIFO queue.
//
// # Overview
//
// The queue is the only channel between the engine's control thread and the
// audio thread. Exactly one goroutine may call Push and exactly one may call
// Pop; under that contract every operation is wait-free and performs no
// allocation, which makes Pop safe to call from an audio callback.
//
// # Usage
//
//	q := spsc.New[Msg](64)
//
//	// Producer side
//	if err := q.Push(msg); err != nil {
//	    // queue full - apply backpressure
//	}
//
//	// Consumer side
//	msg, err := q.Pop()
//	if err != nil {
//	    // queue empty - try again later
//	}
//
// Neither side ever blocks; a full or empty queue is reported through the
// ErrFull and ErrEmpty sentinels.
package spsc
