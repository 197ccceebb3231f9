package loopback

import "testing"

func TestPipeWriteRead(t *testing.T) {
	var p Pipe
	if _, err := p.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf := make([]byte, 5)
	n, err := p.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 5 || string(buf) != "hello" {
		t.Fatalf("Read = (%d, %q), want (5, %q)", n, buf, "hello")
	}
}

func TestPipeBytesDoesNotConsume(t *testing.T) {
	var p Pipe
	p.Write([]byte("abc"))
	if string(p.Bytes()) != "abc" {
		t.Fatalf("Bytes() = %q, want %q", p.Bytes(), "abc")
	}
	if string(p.Bytes()) != "abc" {
		t.Fatal("Bytes() must not consume the buffer")
	}
}

func TestNotifierRecordsChunksAndConnection(t *testing.T) {
	n := NewNotifier()
	if !n.Connected() {
		t.Fatal("NewNotifier should start connected")
	}
	n.Notify([]byte{1, 2, 3})
	n.Notify([]byte{4, 5})
	chunks := n.Chunks()
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	if chunks[0][0] != 1 || chunks[1][0] != 4 {
		t.Fatalf("chunks = %v", chunks)
	}

	n.SetConnected(false)
	if n.Connected() {
		t.Fatal("SetConnected(false) should clear Connected()")
	}
}
