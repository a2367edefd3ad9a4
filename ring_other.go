//go:build !linux

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

type Ring struct{}

func NewRing() *Ring {
	return &Ring{}
}

func IsAvailable() bool {
	return false
}

func (r *Ring) QueueInit(uint32, SetupFlag) error {
	return ErrNotAvailable
}

func (r *Ring) GetIocb() *Iocb {
	return nil
}

func (r *Ring) Submit() (int, error) {
	return 0, ErrNotAvailable
}

func (r *Ring) GetEvent() (*Event, error) {
	return nil, ErrNotAvailable
}

func (r *Ring) Close() error {
	return ErrNotAvailable
}
