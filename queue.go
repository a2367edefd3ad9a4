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

// Submit publishes the iocbs queued up via GetIocb into the kernel-visible
// ring and invokes the enter syscall. Returns the number of iocbs the
// kernel accepted.
//
// The kernel never observes a tail that points past validated indirection
// entries: each candidate slot is checked against a freshly observed
// kernel head before it is written, and the tail store is bracketed by
// write barriers. If the kernel ring fills mid-walk the remaining iocbs
// stay between the old and new shadow head and the next Submit picks them
// up again.
func (r *Ring) Submit() (int, error) {
	sq := &r.SQ
	mask := *sq.KRingMask

	// Entries left in the kernel ring by an interrupted previous cycle
	// are kicked again before anything new is published.
	ReadBarrier()
	if *sq.KHead != *sq.KTail {
		return r.enter(r.FD, *sq.KRingEntries, 0, EnterGetEvents)
	}

	if sq.IocbHead == sq.IocbTail {
		return 0, nil
	}

	submitted := uint32(0)
	ktail := *sq.KTail
	ktailNext := ktail
	for sq.IocbHead < sq.IocbTail {
		ktailNext++

		ReadBarrier()
		if ktailNext == *sq.KHead {
			break
		}

		*sq.arrayAt(ktail & mask) = sq.IocbHead & mask
		ktail = ktailNext

		sq.IocbHead++
		submitted++
	}

	if submitted == 0 {
		return 0, nil
	}

	if *sq.KTail != ktail {
		WriteBarrier()
		*sq.KTail = ktail
		WriteBarrier()
	}

	return r.enter(r.FD, submitted, 0, EnterGetEvents)
}

// GetEvent returns one completion record, blocking in the enter syscall
// until the kernel makes one visible. The returned pointer aliases the CQ
// ring slot; its contents are only stable until the slot is lapped, so
// callers consume it before queueing another ring's worth of iocbs.
func (r *Ring) GetEvent() (*Event, error) {
	cq := &r.CQ
	mask := *cq.KRingMask
	head := *cq.KHead

	var ev *Event
	for {
		ReadBarrier()
		if head != *cq.KTail {
			ev = cq.eventAt(head & mask)
			break
		}

		_, err := r.enter(r.FD, 0, 1, EnterGetEvents)
		if err != nil {
			return nil, err
		}
	}

	*cq.KHead = head + 1
	WriteBarrier()

	return ev, nil
}
