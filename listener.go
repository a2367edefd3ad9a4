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
	"fmt"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/ashvardanian/liburing/pkg/tcp"
)

var _ net.Listener = (*Listener)(nil)

const (
	AcceptEntries = 256
)

// Listener accepts TCP connections through the ring. The ABI has no
// accept opcode, so readiness is awaited with a PollAdd iocb on the
// listening socket and the accept itself runs once the poll completes.
type Listener struct {
	ring *Ring
	fd   int
	addr *net.TCPAddr
}

func Listen(addr string) (*Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("error while resolving listen address: %w", err)
	}

	fd, err := syscall.Socket(syscall.AF_INET, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("error while opening listening socket: %w", err)
	}

	err = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	if err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("error while setting SO_REUSEADDR on listening socket with fd %d: %w", fd, err)
	}

	err = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	if err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("error while setting SO_REUSEPORT on listening socket with fd %d: %w", fd, err)
	}

	var ip [4]byte
	if v4 := tcpAddr.IP.To4(); v4 != nil {
		ip = [4]byte(v4)
	}
	err = syscall.Bind(fd, &syscall.SockaddrInet4{
		Port: tcpAddr.Port,
		Addr: ip,
	})
	if err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("error binding listening socket with fd %d to listen address %s: %w", fd, addr, err)
	}

	err = syscall.Listen(fd, AcceptEntries/2)
	if err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("error while starting to listen on socket with fd %d: %w", fd, err)
	}

	ring := NewRing()
	err = ring.QueueInit(AcceptEntries, 0)
	if err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("error while creating ring for listening socket with fd %d: %w", fd, err)
	}

	return &Listener{
		ring: ring,
		fd:   fd,
		addr: tcpAddr,
	}, nil
}

func (l *Listener) Accept() (net.Conn, error) {
	iocb := l.ring.GetIocb()
	for iocb == nil {
		if _, err := l.ring.Submit(); err != nil {
			return nil, fmt.Errorf("error while draining full ring for listening socket with fd %d: %w", l.fd, err)
		}
		iocb = l.ring.GetIocb()
	}

	*iocb = Iocb{
		OpCode:   uint8(OpCodePollAdd),
		FD:       int32(l.fd),
		RWFlags:  uint32(unix.POLLIN),
		UserData: uint64(tcp.StateAccept),
	}

	if _, err := l.ring.Submit(); err != nil {
		return nil, fmt.Errorf("error while submitting poll for listening socket with fd %d: %w", l.fd, err)
	}

	for {
		ev, err := l.ring.GetEvent()
		if err != nil {
			return nil, fmt.Errorf("error while waiting for poll completion on listening socket with fd %d: %w", l.fd, err)
		}
		if tcp.State(ev.UserData) != tcp.StateAccept {
			continue
		}
		if ev.Res < 0 {
			return nil, fmt.Errorf("poll on listening socket with fd %d failed: %w", l.fd, syscall.Errno(-ev.Res))
		}
		break
	}

	nfd, _, err := unix.Accept4(l.fd, unix.SOCK_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("error while accepting on listening socket with fd %d: %w", l.fd, err)
	}

	file := os.NewFile(uintptr(nfd), "conn")
	conn, err := net.FileConn(file)
	_ = file.Close()
	if err != nil {
		return nil, fmt.Errorf("error while wrapping accepted fd %d: %w", nfd, err)
	}

	return conn, nil
}

func (l *Listener) Close() error {
	err := l.ring.Close()
	if cerr := syscall.Close(l.fd); err == nil {
		err = cerr
	}
	return err
}

func (l *Listener) Addr() net.Addr {
	return l.addr
}
