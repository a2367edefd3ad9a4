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
	"unsafe"

	"github.com/stretchr/testify/require"
)

// The structs below are a binary contract with the kernel; any size drift
// breaks the mapping offset math.
func TestABISizes(t *testing.T) {
	require.Equal(t, uintptr(40), unsafe.Sizeof(Iocb{}))
	require.Equal(t, uintptr(16), unsafe.Sizeof(Event{}))
	require.Equal(t, uintptr(40), unsafe.Sizeof(SQRingOffsets{}))
	require.Equal(t, uintptr(40), unsafe.Sizeof(CQRingOffsets{}))
	require.Equal(t, uintptr(112), unsafe.Sizeof(Params{}))
}

func TestParamsOffsetTableAlignment(t *testing.T) {
	var p Params
	require.Equal(t, uintptr(32), unsafe.Offsetof(p.SQOffsets))
	require.Equal(t, uintptr(72), unsafe.Offsetof(p.CQOffsets))
}
