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

package buffer

import "syscall"

// Iovecs builds the fixed-buffer table registered with the kernel at ring
// setup. Each entry spans a Fixed buffer's full mapped capacity; the
// buffers must outlive the ring they are registered with.
func Iovecs(bufs ...*Fixed) []syscall.Iovec {
	iovecs := make([]syscall.Iovec, 0, len(bufs))
	for _, buf := range bufs {
		full := (*buf)[:cap(*buf)]
		iovecs = append(iovecs, syscall.Iovec{
			Base: &full[0],
			Len:  uint64(len(full)),
		})
	}
	return iovecs
}
