package test

import (
	"net"
	"testing"
)

func getUnusedPort(t *testing.T) int {
	t.Helper()
	// Get a random unused port
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to get unused port: %v", err)
	}
	defer listener.Close()

	// Get the port number
	port := listener.Addr().(*net.TCPAddr).Port
	return port
}
