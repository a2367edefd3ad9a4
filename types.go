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

import "unsafe"

var (
	emptyEvent Event
	emptyIocb  Iocb

	eventSize  = unsafe.Sizeof(emptyEvent)
	iocbSize   = unsafe.Sizeof(emptyIocb)
	uint32Size = unsafe.Sizeof(uint32(0))
)

// SQRingOffsets mirrors struct io_sqring_offsets. The kernel fills it in
// during Setup; every field is a byte offset into the SQ ring mapping.
type SQRingOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Flags       uint32
	Dropped     uint32
	Array       uint32
	ResV1       uint32
	ResV2       uint64
}

// CQRingOffsets mirrors struct io_cqring_offsets. Offsets are relative to
// the CQ ring mapping.
type CQRingOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Overflow    uint32
	Events      uint32
	ResV1       uint32
	ResV2       uint64
}

// Params mirrors struct io_uring_params. Flags and SQThreadCPU are inputs
// to Setup; the kernel writes back the negotiated entry counts and the two
// offset tables describing the mappable regions.
type Params struct {
	SQEntries   uint32
	CQEntries   uint32
	Flags       uint32
	SQThreadCPU uint16
	ResV        [9]uint16
	SQOffsets   SQRingOffsets
	CQOffsets   CQRingOffsets
}

// SubmissionQueue holds the mapped SQ ring state. The K-prefixed pointers
// resolve into the shared mapping: KHead is written by the kernel only,
// KTail by this library only. IocbHead and IocbTail are producer-local
// shadow indices over the iocb array; they track slots handed out by
// GetIocb but not yet published into Array, and never leave this process.
type SubmissionQueue struct {
	KHead        *uint32
	KTail        *uint32
	KRingMask    *uint32
	KRingEntries *uint32
	KFlags       *uint32
	KDropped     *uint32
	Array        *uint32
	Iocbs        *Iocb
	IocbHead     uint32
	IocbTail     uint32
	RingSize     uint

	ringData []byte
	iocbData []byte
}

// CompletionQueue holds the mapped CQ ring state. The kernel writes KTail
// and the event records; this library owns KHead.
type CompletionQueue struct {
	KHead        *uint32
	KTail        *uint32
	KRingMask    *uint32
	KRingEntries *uint32
	KOverflow    *uint32
	Events       *Event
	RingSize     uint

	ringData []byte
}

// arrayAt returns the indirection slot that maps ring position pos to an
// iocb index.
func (sq *SubmissionQueue) arrayAt(pos uint32) *uint32 {
	return (*uint32)(unsafe.Add(unsafe.Pointer(sq.Array), uintptr(pos)*uint32Size))
}

// iocbAt returns the iocb slot at index idx of the descriptor array.
func (sq *SubmissionQueue) iocbAt(idx uint32) *Iocb {
	return (*Iocb)(unsafe.Add(unsafe.Pointer(sq.Iocbs), uintptr(idx)*iocbSize))
}

// eventAt returns the completion record at index idx of the event array.
func (cq *CompletionQueue) eventAt(idx uint32) *Event {
	return (*Event)(unsafe.Add(unsafe.Pointer(cq.Events), uintptr(idx)*eventSize))
}

// SetupFlag values are accepted by Setup via Params.Flags.
type SetupFlag uint32

const (
	SetupIOPoll SetupFlag = 1 << iota
	SetupFixedBufs
	SetupSQThread
	SetupSQWQ
	SetupSQPoll
)

// SQStatus flags are published by the kernel through SubmissionQueue.KFlags.
type SQStatus uint32

const (
	SQStatusNeedWakeup SQStatus = 1 << iota
)

// EnterFlag values modify the behavior of the enter syscall.
type EnterFlag uint32

const (
	EnterGetEvents EnterFlag = 1 << iota
)
