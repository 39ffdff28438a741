package freeport

import (
	"fmt"
	"net"
	"sync"
)

var (
	mu   sync.Mutex
	next uint64 = 15000
)

// Take returns a local port that is not in use and was not handed out before.
func Take() uint64 {
	mu.Lock()
	defer mu.Unlock()

	for isPortInUse(next) {
		next++
	}
	port := next
	next++
	return port
}

// Addr returns a free local address.
func Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", Take())
}

func isPortInUse(port uint64) bool {
	ln, err := net.ListenTCP("tcp", tcpAddr("127.0.0.1", port))
	if err != nil {
		return true
	}
	_ = ln.Close()
	return false
}

func tcpAddr(ip string, port uint64) *net.TCPAddr {
	return &net.TCPAddr{IP: net.ParseIP(ip), Port: int(port)}
}
