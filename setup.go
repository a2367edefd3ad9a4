//go:build linux

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

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MMap establishes the three shared mappings backing one engine instance
// (SQ control region, iocb array, CQ control region) and resolves the
// descriptors' field pointers from the offset tables the kernel wrote into
// params. Sizes come from the same tables. On partial failure every
// mapping established by this call is released before the error returns.
func MMap(fd int, params *Params, sq *SubmissionQueue, cq *CompletionQueue) error {
	sq.RingSize = uint(uintptr(params.SQOffsets.Array) + uintptr(params.SQEntries)*uint32Size)
	cq.RingSize = uint(uintptr(params.CQOffsets.Events) + uintptr(params.CQEntries)*eventSize)

	data, err := unix.Mmap(fd, int64(SQRingOffset), int(sq.RingSize),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED|syscall.MAP_POPULATE)
	if err != nil {
		return fmt.Errorf("error while MMAPing SQ ring: %w", err)
	}
	sq.ringData = data

	base := unsafe.Pointer(&sq.ringData[0])
	sq.KHead = (*uint32)(unsafe.Add(base, uintptr(params.SQOffsets.Head)))
	sq.KTail = (*uint32)(unsafe.Add(base, uintptr(params.SQOffsets.Tail)))
	sq.KRingMask = (*uint32)(unsafe.Add(base, uintptr(params.SQOffsets.RingMask)))
	sq.KRingEntries = (*uint32)(unsafe.Add(base, uintptr(params.SQOffsets.RingEntries)))
	sq.KFlags = (*uint32)(unsafe.Add(base, uintptr(params.SQOffsets.Flags)))
	sq.KDropped = (*uint32)(unsafe.Add(base, uintptr(params.SQOffsets.Dropped)))
	sq.Array = (*uint32)(unsafe.Add(base, uintptr(params.SQOffsets.Array)))

	data, err = unix.Mmap(fd, int64(IocbOffset), int(uintptr(params.SQEntries)*iocbSize),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED|syscall.MAP_POPULATE)
	if err != nil {
		MUnmap(sq, cq)
		return fmt.Errorf("error while MMAPing iocb array: %w", err)
	}
	sq.iocbData = data
	sq.Iocbs = (*Iocb)(unsafe.Pointer(&sq.iocbData[0]))

	data, err = unix.Mmap(fd, int64(CQRingOffset), int(cq.RingSize),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED|syscall.MAP_POPULATE)
	if err != nil {
		MUnmap(sq, cq)
		return fmt.Errorf("error while MMAPing CQ ring: %w", err)
	}
	cq.ringData = data

	base = unsafe.Pointer(&cq.ringData[0])
	cq.KHead = (*uint32)(unsafe.Add(base, uintptr(params.CQOffsets.Head)))
	cq.KTail = (*uint32)(unsafe.Add(base, uintptr(params.CQOffsets.Tail)))
	cq.KRingMask = (*uint32)(unsafe.Add(base, uintptr(params.CQOffsets.RingMask)))
	cq.KRingEntries = (*uint32)(unsafe.Add(base, uintptr(params.CQOffsets.RingEntries)))
	cq.KOverflow = (*uint32)(unsafe.Add(base, uintptr(params.CQOffsets.Overflow)))
	cq.Events = (*Event)(unsafe.Add(base, uintptr(params.CQOffsets.Events)))

	return nil
}

// MUnmap releases whichever of the three mappings exist, iocb array first,
// then the SQ and CQ control regions.
func MUnmap(sq *SubmissionQueue, cq *CompletionQueue) {
	if sq.iocbData != nil {
		_ = unix.Munmap(sq.iocbData)
		sq.iocbData = nil
	}

	if sq.ringData != nil {
		_ = unix.Munmap(sq.ringData)
		sq.ringData = nil
	}

	if cq.ringData != nil {
		_ = unix.Munmap(cq.ringData)
		cq.ringData = nil
	}
}

// QueueMMap maps an already created engine fd into r.
func (r *Ring) QueueMMap(fd int, params *Params) error {
	return MMap(fd, params, &r.SQ, &r.CQ)
}

// QueueInitParams creates an engine instance with the given params and
// maps its rings. iovecs is the fixed-buffer table for SetupFixedBufs and
// may be nil. The fd, the mappings and both descriptors share one
// lifetime, ended by a single call to Close.
func (r *Ring) QueueInitParams(entries uint32, params *Params, iovecs []syscall.Iovec) error {
	fd, err := Setup(entries, iovecs, params)
	if err != nil {
		return fmt.Errorf("error while creating ring: %w", err)
	}

	err = r.QueueMMap(fd, params)
	if err != nil {
		_ = syscall.Close(fd)
		return err
	}

	r.Params = *params
	r.FD = fd
	return nil
}

// QueueInit creates an engine instance with default params and the given
// setup flags, and maps its rings.
func (r *Ring) QueueInit(entries uint32, flags SetupFlag) error {
	params := &Params{
		Flags: uint32(flags),
	}
	return r.QueueInitParams(entries, params, nil)
}
