//go:build !amd64

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

import "sync/atomic"

// Architectures without dedicated fence stubs get a full bidirectional
// fence for both directions. A locked read-modify-write forces every
// platform's strongest ordering.

var barrierWord uint32

// ReadBarrier orders loads: no load issued after the call may be satisfied
// before a load issued prior to it.
func ReadBarrier() {
	atomic.AddUint32(&barrierWord, 0)
}

// WriteBarrier orders stores: every store issued prior to the call is
// visible to the other party before any store issued after it.
func WriteBarrier() {
	atomic.AddUint32(&barrierWord, 0)
}
