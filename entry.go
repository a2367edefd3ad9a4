/*
	Copyright 2023 Loophole Labs

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

		   http://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package liburing

// Iocb mirrors struct io_uring_iocb, the fixed-size operation descriptor
// the caller fills before Submit. UserData is opaque to the kernel and is
// echoed back in the matching Event; it is the only way to correlate a
// completion with its submission, since completions arrive in
// kernel-completion order.
type Iocb struct {
	OpCode     uint8
	Flags      uint8
	IOPriority uint16
	FD         int32
	Offset     uint64
	Address    uint64
	Length     uint32
	RWFlags    uint32
	UserData   uint64
}

// Event mirrors struct io_uring_event, one completion record written by
// the kernel into the CQ ring. Res carries the operation result, or a
// negated errno on failure.
type Event struct {
	UserData uint64
	Res      int32
	Flags    uint32
}

// OpCode selects the operation an Iocb describes.
type OpCode uint8

const (
	OpCodeReadv OpCode = iota + 1
	OpCodeWritev
	OpCodeFsync
	OpCodeFdsync
	OpCodeReadFixed
	OpCodeWriteFixed
	OpCodePollAdd
	OpCodePollRemove
)

// EventFlagCacheHit is set in Event.Flags when the kernel served the
// operation from the page cache.
const EventFlagCacheHit uint32 = 1 << 0
