package server

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/sonic182/slimcache/cuckoo"
	"github.com/stretchr/testify/require"
)

func TestListenerEndToEndSetGet(t *testing.T) {
	cfg := cuckoo.Config{Slots: 64, D: 4, MaxHops: 8, KeyMax: 250, ValMax: 64}
	ln, err := NewListener("127.0.0.1:0", 1, cfg, nil)
	require.NoError(t, err)
	defer ln.Close()

	for _, w := range ln.Workers() {
		go w.Run()
	}
	go ln.Serve()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("set foo 0 0 3\r\nbar\r\n"))
	require.NoError(t, err)

	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "STORED\r\n", line)

	_, err = conn.Write([]byte("get foo\r\n"))
	require.NoError(t, err)

	frame := make([]byte, 0, 64)
	for i := 0; i < 3; i++ {
		l, err := r.ReadString('\n')
		require.NoError(t, err)
		frame = append(frame, l...)
	}
	require.Equal(t, "VALUE foo 0 3\r\nbar\r\nEND\r\n", string(frame))
}
