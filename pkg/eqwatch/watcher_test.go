package eqwatch_test

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eqwatch/eqwatch-go/pkg/eqwatch"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/event"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/sink"
)

func stampLine(body string) string {
	return "[Sun Sep 18 15:22:41 2022] " + body + "\n"
}

func appendLine(t *testing.T, f *os.File, body string) {
	t.Helper()
	if _, err := f.WriteString(stampLine(body)); err != nil {
		t.Fatal(err)
	}
	if err := f.Sync(); err != nil {
		t.Fatal(err)
	}
}

func receiveEvent(t *testing.T, events <-chan event.Event, errs <-chan error) event.Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("event channel closed")
		}
		return ev
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return event.Event{}
}

// TestWatcher_DetectsEvents tests the basic line-to-event path: a spawn
// message appended to the active log file becomes a detector event.
func TestWatcher_DetectsEvents(t *testing.T) {
	dir := t.TempDir()

	logFile := filepath.Join(dir, "eqlog_Azleep_project1999.txt")
	f, err := os.Create(logFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	watcher, err := eqwatch.NewWatcherWithOptions(
		eqwatch.WithLogDir(dir),
		eqwatch.WithPollInterval(20*time.Millisecond),
		eqwatch.WithHeartbeat(200*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, errs, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Give the tailer time to reach the end of the file
	time.Sleep(300 * time.Millisecond)

	appendLine(t, f, "Vessel Drozlin begins to cast a spell.")

	ev := receiveEvent(t, events, errs)
	if ev.DetectorID != 1 {
		t.Errorf("got detector id %d, want 1", ev.DetectorID)
	}
	if ev.Character != "Azleep" {
		t.Errorf("got character %q, want %q", ev.Character, "Azleep")
	}
	if !strings.Contains(ev.Record(), "EQ__|Azleep|1|") {
		t.Errorf("unexpected record: %q", ev.Record())
	}

	st := watcher.Status()
	if st.File != logFile {
		t.Errorf("status file = %q, want %q", st.File, logFile)
	}
	if st.Character != "Azleep" {
		t.Errorf("status character = %q, want %q", st.Character, "Azleep")
	}
}

// TestWatcher_CharacterSwitch tests that the heartbeat notices a newer log
// file for a different character and carries the new name into events.
func TestWatcher_CharacterSwitch(t *testing.T) {
	dir := t.TempDir()

	f1, err := os.Create(filepath.Join(dir, "eqlog_Azleep_project1999.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f1.Close()

	watcher, err := eqwatch.NewWatcherWithOptions(
		eqwatch.WithLogDir(dir),
		eqwatch.WithPollInterval(20*time.Millisecond),
		eqwatch.WithHeartbeat(200*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, errs, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	appendLine(t, f1, "Vessel Drozlin begins to cast a spell.")
	if ev := receiveEvent(t, events, errs); ev.Character != "Azleep" {
		t.Errorf("initial event character = %q, want %q", ev.Character, "Azleep")
	}

	// Switch character: a newer log file appears and the old one goes idle.
	f2, err := os.Create(filepath.Join(dir, "eqlog_Berrma_project1999.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	appendLine(t, f2, "Lord Nagafen engages Berrma!")
	f1.Close()

	// The new file is read from the start, so the line written before the
	// heartbeat fires is not lost.
	ev := receiveEvent(t, events, errs)
	if ev.Character != "Berrma" {
		t.Errorf("switched event character = %q, want %q", ev.Character, "Berrma")
	}
	if ev.Description != "FTE: Lord Nagafen engages Berrma" {
		t.Errorf("unexpected description: %q", ev.Description)
	}
}

// TestWatcher_ReplayFromStart tests that existing lines are processed when
// replay is enabled.
func TestWatcher_ReplayFromStart(t *testing.T) {
	dir := t.TempDir()

	logFile := filepath.Join(dir, "eqlog_Azleep_project1999.txt")
	content := stampLine("Vessel Drozlin begins to cast a spell.") +
		stampLine("Master Yael has been slain by Azleep!")
	if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	watcher, err := eqwatch.NewWatcherWithOptions(
		eqwatch.WithLogDir(dir),
		eqwatch.WithPollInterval(20*time.Millisecond),
		eqwatch.WithReplayFromStart(),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, errs, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	ev := receiveEvent(t, events, errs)
	if ev.DetectorID != 1 {
		t.Errorf("first replayed event: got id %d, want 1", ev.DetectorID)
	}

	// The slain line triggers both the Master Yael detector and TOD.
	ids := map[int]bool{}
	ids[receiveEvent(t, events, errs).DetectorID] = true
	ids[receiveEvent(t, events, errs).DetectorID] = true
	if !ids[3] || !ids[13] {
		t.Errorf("slain line events = %v, want ids 3 and 13", ids)
	}
}

// TestWatcher_NoLogFiles tests that an empty directory produces an error
// and closes the channels.
func TestWatcher_NoLogFiles(t *testing.T) {
	watcher, err := eqwatch.NewWatcherWithOptions(
		eqwatch.WithLogDir(t.TempDir()),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, errs, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	select {
	case err := <-errs:
		var werr *eqwatch.WatchError
		if !errors.As(err, &werr) {
			t.Fatalf("expected WatchError, got %T: %v", err, err)
		}
		if !errors.Is(err, eqwatch.ErrNoLogFiles) {
			t.Errorf("expected ErrNoLogFiles, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error")
	}

	select {
	case _, ok := <-events:
		if ok {
			t.Error("unexpected event")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event channel not closed after fatal error")
	}
}

// TestWatcher_WatchLifecycle tests the once-only Watch contract and
// idempotent Close.
func TestWatcher_WatchLifecycle(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "eqlog_Azleep_project1999.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	watcher, err := eqwatch.NewWatcherWithOptions(eqwatch.WithLogDir(dir))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, _, err := watcher.Watch(ctx); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if _, _, err := watcher.Watch(ctx); !errors.Is(err, eqwatch.ErrAlreadyWatching) {
		t.Errorf("second Watch: got %v, want ErrAlreadyWatching", err)
	}

	if err := watcher.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := watcher.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, _, err := watcher.Watch(ctx); !errors.Is(err, eqwatch.ErrWatcherClosed) {
		t.Errorf("Watch after Close: got %v, want ErrWatcherClosed", err)
	}
}

// TestWatcher_InvalidOptions tests option validation.
func TestWatcher_InvalidOptions(t *testing.T) {
	if _, err := eqwatch.NewWatcherWithOptions(
		eqwatch.WithLogDir(t.TempDir()),
		eqwatch.WithHeartbeat(-time.Second),
	); err == nil {
		t.Error("expected error for negative heartbeat")
	}
	if _, err := eqwatch.NewWatcherWithOptions(
		eqwatch.WithLogDir(t.TempDir()),
		eqwatch.WithServer(""),
	); err == nil {
		t.Error("expected error for empty server")
	}
}

// TestWatcher_SinkDelivery tests that matched events reach a UDP sink as
// syslog datagrams.
func TestWatcher_SinkDelivery(t *testing.T) {
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "eqlog_Azleep_project1999.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer pc.Close()

	got := make(chan string, 4)
	go func() {
		buf := make([]byte, 2048)
		for {
			n, _, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			got <- string(buf[:n])
		}
	}()

	s, err := sink.NewSyslogSink("127.0.0.1", pc.LocalAddr().(*net.UDPAddr).Port)
	if err != nil {
		t.Fatal(err)
	}

	watcher, err := eqwatch.NewWatcherWithOptions(
		eqwatch.WithLogDir(dir),
		eqwatch.WithPollInterval(20*time.Millisecond),
		eqwatch.WithSinks(s),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, errs, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	appendLine(t, f, "Vessel Drozlin begins to cast a spell.")

	receiveEvent(t, events, errs)

	select {
	case msg := <-got:
		if !strings.Contains(msg, "EQ__|Azleep|1|") {
			t.Errorf("unexpected datagram: %q", msg)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for sink datagram")
	}
}
