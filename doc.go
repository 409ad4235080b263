// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package avpipe provides the bounded, thread-safe FIFO machinery an
// in-process media pipeline shuttles frames, packets, and control events
// through.
//
// The package is built around three layers:
//
//   - CircularBuffer[T]: a fixed-capacity ring with two concurrency modes
//     (SPSC lock-free, MPMC mutex-protected), a head-monitor callback, and
//     high/low water marks.
//   - WaitableFifo[T]: CircularBuffer[T] plus write/read counting semaphores,
//     a flow-enable gate, and timed/try wait variants.
//   - Command + CommandPool + CommandFifo: a pooled, reference-counted event
//     object (media frame, media packet, flush, end-of-stream, seek, config)
//     carried by a WaitableFifo[*Command].
//
// # Quick start
//
//	fifo := avpipe.NewWaitableFifo[int](16, avpipe.ModeSPSC)
//	fifo.SetFlowEnabled(true)
//
//	// producer
//	if st := fifo.Write(42); st != avpipe.StatusOK {
//	    // handle backpressure/FlowDisabled
//	}
//
//	// consumer
//	fifo.WaitReadData()
//	v, st := fifo.Read()
//
// # Commands
//
//	pool := avpipe.NewCommandPool(64, 0) // initial=64, unbounded growth
//	cmd := pool.Acquire()
//	cmd.Init(avpipe.CommandFrame)
//	cmd.SetData(frame, media.FrameRef)
//	cfifo.Write(cmd) // transfers the caller's ref into the FIFO
//
// # End-of-stream protocol
//
// A well-behaved producer enqueues a sentinel Command (CommandEndOfStream)
// and then disables flow. The consumer reads until it observes the
// sentinel, releases it, and exits; this does not rely on FlowDisabled
// propagation to unblock a reader that still has pending data to drain.
//
// # Thread safety
//
// CircularBuffer[T]'s SPSC mode requires exactly one producer goroutine and
// exactly one consumer goroutine; violating this is undefined behavior, the
// same contract the SPSC algorithm this package's ring is grounded on
// documents. MPMC mode, CountingSemaphore, CommandPool, and Command's
// refcount operations are safe from any number of goroutines.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic would-block
// classification and [code.hybscloud.com/atomix] for atomic fields with
// explicit memory ordering.
package avpipe
