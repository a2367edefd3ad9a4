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

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// Buffer is a resizable buffer whose memory is allocated outside of the Go
// heap via a memfd-backed shared mapping, making it safe to hand to the
// kernel for the lifetime of queued operations.
type Buffer []byte

func New(size int64) (*Buffer, error) {
	if size < 0 {
		return nil, fmt.Errorf("size cannot be negative")
	}

	data, err := allocateBuffer(size)
	if err != nil {
		return nil, fmt.Errorf("error while allocating buffer: %w", err)
	}

	buffer := (Buffer)(data)[:0]
	return &buffer, nil
}

func (buf *Buffer) Write(b []byte) (int, error) {
	if cap(*buf)-len(*buf) < len(b) {
		newSize := int64(cap(*buf) + len(b))
		data, err := allocateBuffer(newSize)
		if err != nil {
			return 0, fmt.Errorf("error while allocating resized buffer: %w", err)
		}

		buffer := (Buffer)(data)[:len(*buf)]
		copy(buffer, *buf)

		err = unix.Munmap((*buf)[:cap(*buf)])
		if err != nil {
			return 0, fmt.Errorf("error while unmapping existing buffer: %w", err)
		}

		*buf = append(buffer, b...)
	} else {
		*buf = (*buf)[:len(*buf)+copy((*buf)[len(*buf):cap(*buf)], b)]
	}
	return len(*buf), nil
}

func (buf *Buffer) Reset() {
	*buf = (*buf)[:0]
}

func (buf *Buffer) Bytes() []byte {
	return *buf
}

func (buf *Buffer) Len() int {
	return len(*buf)
}

func (buf *Buffer) Cap() int {
	return cap(*buf)
}

func (buf *Buffer) Close() error {
	return unix.Munmap((*buf)[:cap(*buf)])
}

func allocateBuffer(size int64) ([]byte, error) {
	fd, err := unix.MemfdCreate("buffer", 0)
	if err != nil {
		return nil, fmt.Errorf("error while creating memfd: %w", err)
	}

	err = unix.Ftruncate(fd, size)
	if err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("error while truncating memfd: %w", err)
	}

	data, err := unix.Mmap(fd, 0, int(size), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("error while mmaping buffer: %w", err)
	}

	err = syscall.Close(fd)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("error while closing memfd: %w", err)
	}

	return data, nil
}
