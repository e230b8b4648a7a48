//go:build !windows

package pty

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
)

func readUntil(t *testing.T, term *Terminal, want string) string {
	t.Helper()
	buf := make([]byte, 1024)
	var output strings.Builder
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, err := term.Read(buf)
		if n > 0 {
			output.Write(buf[:n])
		}
		if strings.Contains(output.String(), want) || err != nil {
			break
		}
	}
	return output.String()
}

func TestStart_EchoCommand(t *testing.T) {
	term, err := Start(context.Background(), Command{Name: "echo", Args: []string{"hello"}, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer term.Close()

	if out := readUntil(t, term, "hello"); !strings.Contains(out, "hello") {
		t.Errorf("expected output to contain 'hello', got %q", out)
	}
}

func TestStart_EmptyCommand(t *testing.T) {
	if _, err := Start(context.Background(), Command{}); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestStart_InvalidCommand(t *testing.T) {
	if _, err := Start(context.Background(), Command{Name: "/nonexistent/termsel-cmd"}); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestStart_WithSize(t *testing.T) {
	term, err := Start(context.Background(), Command{Name: "stty", Args: []string{"size"}, Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer term.Close()

	if out := readUntil(t, term, "24 80"); !strings.Contains(out, "24 80") {
		t.Errorf("expected stty to report 24 80, got %q", out)
	}
}

func TestTerminal_WriteEchoes(t *testing.T) {
	term, err := Start(context.Background(), Command{Name: "cat"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer term.Close()

	if _, err := term.Write([]byte("test input\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out := readUntil(t, term, "test input"); !strings.Contains(out, "test input") {
		t.Errorf("expected echo, got %q", out)
	}
}

func TestTerminal_AfterClose(t *testing.T) {
	term, err := Start(context.Background(), Command{Name: "cat"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := term.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !term.IsClosed() {
		t.Fatal("IsClosed() = false after Close")
	}
	if _, err := term.Write([]byte("x")); err != io.ErrClosedPipe {
		t.Fatalf("Write after close = %v, want ErrClosedPipe", err)
	}
	if _, err := term.Read(make([]byte, 8)); err != io.EOF {
		t.Fatalf("Read after close = %v, want EOF", err)
	}
	if err := term.SetSize(10, 10); err != nil {
		t.Fatalf("SetSize after close = %v, want nil", err)
	}
	if err := term.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestTerminal_ConcurrentClose(t *testing.T) {
	term, err := Start(context.Background(), Command{Name: "cat"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = term.Close()
		}()
	}
	wg.Wait()
}

func TestTerminal_ReadEOFAfterProcessExit(t *testing.T) {
	term, err := Start(context.Background(), Command{Name: "true"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer term.Close()

	buf := make([]byte, 64)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := term.Read(buf); err != nil {
			if err != io.EOF {
				t.Fatalf("Read error = %v, want EOF", err)
			}
			return
		}
	}
	t.Fatal("timed out waiting for EOF")
}

func TestCapture_CopiesOutput(t *testing.T) {
	var out bytes.Buffer
	err := Capture(context.Background(), Command{Name: "printf", Args: []string{"one\\ntwo\\n"}}, &out)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	got := strings.ReplaceAll(out.String(), "\r", "")
	if got != "one\ntwo\n" {
		t.Fatalf("captured %q", got)
	}
}

func TestCapture_ReportsExitStatus(t *testing.T) {
	var out bytes.Buffer
	err := Capture(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo partial; exit 3"}}, &out)
	if err == nil {
		t.Fatal("expected exit error")
	}
	if !strings.Contains(out.String(), "partial") {
		t.Fatalf("output before exit lost: %q", out.String())
	}
}

func TestCapture_Cancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var out bytes.Buffer
	if err := Capture(ctx, Command{Name: "sleep", Args: []string{"5"}}, &out); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestTerminal_CloseKillsPipeline(t *testing.T) {
	term, err := Start(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "sleep 60 & echo started; wait"},
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if out := readUntil(t, term, "started"); !strings.Contains(out, "started") {
		t.Fatalf("shell never started: %q", out)
	}
	pgid, err := syscall.Getpgid(term.cmd.Process.Pid)
	if err != nil {
		t.Fatalf("getpgid: %v", err)
	}

	if err := term.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := syscall.Kill(-pgid, 0); err == syscall.ESRCH {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("background child outlived Close")
}

func TestCaptureResizable_AppliesSizes(t *testing.T) {
	sizes := make(chan Size, 1)
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- CaptureResizable(context.Background(), Command{
			Name: "sh",
			Args: []string{"-c", "sleep 0.3; stty size"},
			Rows: 24,
			Cols: 80,
		}, &out, sizes)
	}()
	sizes <- Size{Rows: 11, Cols: 33}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("CaptureResizable failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("capture did not finish")
	}
	if !strings.Contains(out.String(), "11 33") {
		t.Fatalf("stty saw %q, want 11 33", out.String())
	}
}
