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
	"os"
	"sync"
)

const (
	defaultSize = 512
)

var (
	pageSize = int64(os.Getpagesize())

	// The package-level Fixed pool hands out single-page buffers so
	// anything taken from it can go straight into a setup-time iovec
	// table; scratch Buffers keep the smaller transient default.
	pool      = NewPool(defaultSize)
	fixedPool = NewFixedPool(pageSize)
)

// Pool recycles resizable Buffers. Returned buffers keep whatever
// capacity their last use grew them to.
type Pool struct {
	pool sync.Pool
	size int64
}

func NewPool(size int64) *Pool {
	return &Pool{
		size: size,
	}
}

func (p *Pool) Get() (*Buffer, error) {
	if v := p.pool.Get(); v != nil {
		return v.(*Buffer), nil
	}
	return New(p.size)
}

func (p *Pool) Put(b *Buffer) {
	if b == nil {
		return
	}
	b.Reset()
	p.pool.Put(b)
}

func GetBuffer() (*Buffer, error) {
	return pool.Get()
}

func PutBuffer(b *Buffer) {
	pool.Put(b)
}

// FixedPool recycles Fixed buffers of one capacity. Registration tables
// span a buffer's full mapping, so a Fixed whose capacity drifted from
// the pool's is unmapped instead of pooled.
type FixedPool struct {
	pool sync.Pool
	size int64
}

// NewFixedPool pools Fixed buffers of the given size, rounded up to whole
// pages exactly like NewFixed rounds its allocations.
func NewFixedPool(size int64) *FixedPool {
	return &FixedPool{
		size: size,
	}
}

func (p *FixedPool) Get() (*Fixed, error) {
	if v := p.pool.Get(); v != nil {
		return v.(*Fixed), nil
	}
	return NewFixed(p.size)
}

func (p *FixedPool) Put(b *Fixed) {
	if b == nil {
		return
	}
	if !p.fits(b) {
		_ = b.Close()
		return
	}
	b.Reset()
	p.pool.Put(b)
}

func (p *FixedPool) fits(b *Fixed) bool {
	rounded := ((p.size + pageSize - 1) / pageSize) * pageSize
	if rounded == 0 {
		rounded = pageSize
	}
	return int64(b.Cap()) == rounded
}

func GetFixed() (*Fixed, error) {
	return fixedPool.Get()
}

func PutFixed(b *Fixed) {
	fixedPool.Put(b)
}
