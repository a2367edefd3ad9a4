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

import "syscall"

// Ring owns one engine instance: the fd and the mapped SQ/CQ descriptors.
// A Ring must only be driven from one goroutine at a time; the ring
// protocol is single-producer/single-consumer against the kernel and
// carries no internal locking.
type Ring struct {
	SQ     SubmissionQueue
	CQ     CompletionQueue
	Params Params
	FD     int

	enter func(fd int, toSubmit uint32, minComplete uint32, flags EnterFlag) (int, error)
}

func NewRing() *Ring {
	return &Ring{
		enter: Enter,
	}
}

// GetIocb returns a vacant iocb for the caller to fill, or nil if all
// iocbs are in use; the caller must then Submit (and possibly wait) before
// retrying. GetIocb may be called repeatedly before a single Submit. Only
// the producer-local shadow tail moves here, nothing becomes visible to
// the kernel.
func (r *Ring) GetIocb() *Iocb {
	sq := &r.SQ
	next := sq.IocbTail + 1

	if next-sq.IocbHead > *sq.KRingEntries {
		return nil
	}

	iocb := sq.iocbAt(sq.IocbTail & *sq.KRingMask)
	sq.IocbTail = next
	return iocb
}

// Close tears the instance down: iocb array and ring control regions are
// unmapped, then the fd is closed. Exactly one Close per successful init;
// the mappings must not be touched afterwards.
func (r *Ring) Close() error {
	MUnmap(&r.SQ, &r.CQ)
	return syscall.Close(r.FD)
}
