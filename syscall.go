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
	"syscall"
	"unsafe"
)

// Prototype syscall numbers on x86-64, from the pre-mainline engine
// patches. Kernels built without the engine report ENOSYS.
const (
	SYS_IO_URING_SETUP uintptr = 335
	SYS_IO_URING_ENTER uintptr = 336
)

// Setup creates one engine instance with ring depth entries and returns
// its fd. The kernel writes the negotiated sizes and both mapping offset
// tables back into params. When params requests SetupFixedBufs, iovecs
// describes the pre-mapped I/O buffers to register; this ABI takes them at
// setup time, there is no separate register call.
func Setup(entries uint32, iovecs []syscall.Iovec, params *Params) (int, error) {
	var iov unsafe.Pointer
	if len(iovecs) > 0 {
		iov = unsafe.Pointer(&iovecs[0])
	}

	fd, _, errno := syscall.Syscall(
		SYS_IO_URING_SETUP,
		uintptr(entries),
		uintptr(iov),
		uintptr(unsafe.Pointer(params)),
	)

	if errno != 0 {
		return 0, errno
	}

	return int(fd), nil
}

// Enter tells the kernel to consume up to toSubmit newly indexed iocbs
// and, with EnterGetEvents set, to block until minComplete completions are
// visible in the CQ ring. Returns the number of iocbs the kernel accepted.
func Enter(fd int, toSubmit uint32, minComplete uint32, flags EnterFlag) (int, error) {
	consumed, _, errno := syscall.Syscall6(
		SYS_IO_URING_ENTER,
		uintptr(fd),
		uintptr(toSubmit),
		uintptr(minComplete),
		uintptr(flags),
		0,
		0,
	)

	if errno != 0 {
		return 0, errno
	}

	return int(consumed), nil
}
