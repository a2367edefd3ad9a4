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
	"testing"

	"github.com/stretchr/testify/require"
)

type enterCall struct {
	toSubmit    uint32
	minComplete uint32
	flags       EnterFlag
}

// testKernel emulates the kernel side of the ring protocol over process
// memory: it consumes published SQ indices and posts completion records,
// so the producer-side logic runs without the engine syscalls.
type testKernel struct {
	sqHead      uint32
	sqTail      uint32
	sqRingMask  uint32
	sqEntries   uint32
	sqFlags     uint32
	sqDropped   uint32
	cqHead      uint32
	cqTail      uint32
	cqRingMask  uint32
	cqEntries   uint32
	cqOverflow  uint32
	array       []uint32
	iocbs       []Iocb
	events      []Event

	calls        []enterCall
	err          error
	reverse      bool // post each consumed batch in reverse order
	consumeLimit int  // max iocbs consumed per enter call, 0 = unlimited
	holdFor      int  // wait calls to swallow before posting delayed events
	delayed      []Event
}

func (k *testKernel) enter(_ int, toSubmit uint32, minComplete uint32, flags EnterFlag) (int, error) {
	k.calls = append(k.calls, enterCall{toSubmit: toSubmit, minComplete: minComplete, flags: flags})
	if k.err != nil {
		return 0, k.err
	}

	consumed := 0
	var batch []Event
	for uint32(consumed) < toSubmit && k.sqHead != k.sqTail {
		if k.consumeLimit > 0 && consumed == k.consumeLimit {
			break
		}
		idx := k.array[k.sqHead&k.sqRingMask]
		iocb := k.iocbs[idx]
		batch = append(batch, Event{
			UserData: iocb.UserData,
			Res:      int32(iocb.Length),
		})
		k.sqHead++
		consumed++
	}

	if k.reverse {
		for i, j := 0, len(batch)-1; i < j; i, j = i+1, j-1 {
			batch[i], batch[j] = batch[j], batch[i]
		}
	}
	for _, ev := range batch {
		k.post(ev)
	}

	if minComplete > 0 && len(k.delayed) > 0 {
		if k.holdFor > 0 {
			k.holdFor--
			return consumed, nil
		}
		for _, ev := range k.delayed {
			k.post(ev)
		}
		k.delayed = nil
	}

	return consumed, nil
}

func (k *testKernel) post(ev Event) {
	k.events[k.cqTail&k.cqRingMask] = ev
	k.cqTail++
}

func newTestRing(entries uint32, k *testKernel) *Ring {
	k.sqRingMask = entries - 1
	k.sqEntries = entries
	k.cqRingMask = entries - 1
	k.cqEntries = entries
	k.array = make([]uint32, entries)
	k.iocbs = make([]Iocb, entries)
	k.events = make([]Event, entries)

	r := NewRing()
	r.enter = k.enter
	r.SQ = SubmissionQueue{
		KHead:        &k.sqHead,
		KTail:        &k.sqTail,
		KRingMask:    &k.sqRingMask,
		KRingEntries: &k.sqEntries,
		KFlags:       &k.sqFlags,
		KDropped:     &k.sqDropped,
		Array:        &k.array[0],
		Iocbs:        &k.iocbs[0],
	}
	r.CQ = CompletionQueue{
		KHead:        &k.cqHead,
		KTail:        &k.cqTail,
		KRingMask:    &k.cqRingMask,
		KRingEntries: &k.cqEntries,
		KOverflow:    &k.cqOverflow,
		Events:       &k.events[0],
	}
	return r
}

func TestGetIocbReturnsDistinctSlots(t *testing.T) {
	k := &testKernel{}
	r := newTestRing(8, k)

	seen := make(map[*Iocb]bool)
	for i := 0; i < 8; i++ {
		iocb := r.GetIocb()
		require.NotNil(t, iocb)
		require.False(t, seen[iocb])
		seen[iocb] = true
	}
}

func TestGetIocbFullSentinel(t *testing.T) {
	k := &testKernel{}
	r := newTestRing(4, k)

	for i := 0; i < 4; i++ {
		require.NotNil(t, r.GetIocb())
	}
	require.Nil(t, r.GetIocb())

	// GetIocb only touches shadow state, nothing is kernel-visible yet.
	require.Equal(t, uint32(0), k.sqTail)
	require.Empty(t, k.calls)
}

func TestRingDepthFourScenario(t *testing.T) {
	k := &testKernel{reverse: true}
	r := newTestRing(4, k)

	for token := uint64(1); token <= 4; token++ {
		iocb := r.GetIocb()
		require.NotNil(t, iocb)
		*iocb = Iocb{
			OpCode:   uint8(OpCodeReadv),
			FD:       -1,
			UserData: token,
		}
	}
	require.Nil(t, r.GetIocb())

	submitted, err := r.Submit()
	require.NoError(t, err)
	require.Equal(t, 4, submitted)

	// The fake kernel completed in reverse, and retrieval follows
	// kernel-completion order, not submission order.
	var tokens []uint64
	for i := 0; i < 4; i++ {
		ev, err := r.GetEvent()
		require.NoError(t, err)
		tokens = append(tokens, ev.UserData)
	}
	require.Equal(t, []uint64{4, 3, 2, 1}, tokens)
	require.Equal(t, uint32(4), k.cqHead)
}

func TestRingWrapAround(t *testing.T) {
	k := &testKernel{}
	r := newTestRing(4, k)

	// Three times the capacity, one entry at a time, so every index
	// wraps the mask at least twice.
	for token := uint64(0); token < 12; token++ {
		iocb := r.GetIocb()
		require.NotNil(t, iocb)
		iocb.UserData = token

		submitted, err := r.Submit()
		require.NoError(t, err)
		require.Equal(t, 1, submitted)

		ev, err := r.GetEvent()
		require.NoError(t, err)
		require.Equal(t, token, ev.UserData)
	}

	require.Equal(t, uint32(12), k.sqTail)
	require.Equal(t, uint32(12), k.cqHead)
}

func TestMUnmapEmptyDescriptors(t *testing.T) {
	MUnmap(&SubmissionQueue{}, &CompletionQueue{})
}
