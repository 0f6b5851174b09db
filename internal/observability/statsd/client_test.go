package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" booking.transition ": "booking.transition",
		"job..accepted.":       "job.accepted",
		"job type/paid":        "job_type_paid",
		"résumé":               "r_sum_",
		"...":                  "",
	}

	for input, want := range tests {
		if got := metricName(input); got != want {
			t.Fatalf("metricName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestClientLineFormatting(t *testing.T) {
	t.Parallel()

	c := &Client{
		prefix: "booking",
		global: cleanTags(map[string]string{"env": "prod", " service ": " booking-api "}),
	}

	got := c.line("job.transition", "1", "c", map[string]string{
		"result": " success ",
		"env":    "stage",
		"":       "ignored",
		"class":  "a,b|c",
	})
	want := "booking.job.transition:1|c|#class:a_b_c,env:stage,result:success,service:booking-api"
	if got != want {
		t.Fatalf("line mismatch\n got: %q\nwant: %q", got, want)
	}

	if got := (&Client{}).line("..", "1", "c", nil); got != "" {
		t.Fatalf("expected empty line for unusable name, got %q", got)
	}
	if got := (&Client{}).line("jobs", "2.5", "g", nil); got != "jobs:2.5|g" {
		t.Fatalf("expected untagged line, got %q", got)
	}
}

func TestClientWritesDatagrams(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	c := &Client{prefix: "booking", global: map[string]string{}, conn: clientConn}

	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 256)
		n, _ := peerConn.Read(buf)
		got <- string(buf[:n])
	}()

	c.Timing("job.duration", 1500*time.Microsecond, map[string]string{"job_type": "paid"})

	select {
	case line := <-got:
		if line != "booking.job.duration:1.5|ms|#job_type:paid" {
			t.Fatalf("unexpected datagram %q", line)
		}
	case <-time.After(time.Second):
		t.Fatal("no datagram written")
	}
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{conn: clientConn}
	if !client.Enabled() {
		t.Fatal("expected client.Enabled to report true with active connection")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if client.Enabled() {
		t.Fatal("expected client.Enabled to report false after Close")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close (second call) error: %v", err)
	}

	// Emitting after Close is dropped silently.
	client.Count("job.transition", 1, nil)

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	nilClient.Count("job.transition", 1, nil)
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if client.Enabled() {
		t.Fatal("expected client to stay disabled when address is empty")
	}
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	if err == nil {
		t.Fatal("expected NewClient to error for invalid address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}
