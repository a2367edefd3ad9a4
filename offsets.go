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

// Magic mmap offsets selecting which of the three shared regions a map of
// the ring fd refers to.
const (
	SQRingOffset uint64 = 0
	CQRingOffset uint64 = 0x8000000
	IocbOffset   uint64 = 0x10000000
)
