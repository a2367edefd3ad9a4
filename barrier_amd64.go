//go:build amd64

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

// ReadBarrier orders loads: no load issued after the call may be satisfied
// before a load issued prior to it. Called before re-reading an index the
// other party publishes. Implemented as LFENCE in barrier_amd64.s.
//
//go:noescape
func ReadBarrier()

// WriteBarrier orders stores: every store issued prior to the call is
// visible to the other party before any store issued after it. Called
// around publishing a ring index. Implemented as SFENCE in barrier_amd64.s.
//
//go:noescape
func WriteBarrier()
