package datadog

import (
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics"
)

func TestNewBackendRequiresAddr(t *testing.T) {
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("NewBackend(empty) error = nil, want error")
	}
}

func TestTagsSorted(t *testing.T) {
	got := tags(metrics.Labels{"table": "songs", "kind": "written", "job": "sparkify"})
	want := []string{"job:sparkify", "kind:written", "table:songs"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tags = %v, want %v", got, want)
	}
	if tags(nil) != nil {
		t.Fatalf("tags(nil) should be nil")
	}
}

/*
TestCounterReachesAgent sends a counter to a UDP listener standing in for
the agent and checks the namespaced name and tags arrive.
*/
func TestCounterReachesAgent(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer conn.Close()

	b, err := NewBackend(Config{Addr: conn.LocalAddr().String()})
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter(metrics.RowsTotal, 3, metrics.Labels{"table": "songs", "kind": "written"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	buf := make([]byte, 4096)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read packet: %v", err)
	}
	pkt := string(buf[:n])

	for _, want := range []string{"sparkify." + metrics.RowsTotal + ":3|c", "table:songs", "kind:written"} {
		if !strings.Contains(pkt, want) {
			t.Fatalf("packet %q missing %q", pkt, want)
		}
	}
}
