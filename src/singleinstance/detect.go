package singleinstance

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"time"
)

// findResident scans the configured port range for a process answering PING.
func findResident(ctx context.Context, timeout time.Duration) (string, bool, error) {
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if ping(addr, timeout) {
			return addr, true, nil
		}
	}
	return "", false, nil
}

func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(pingRequest)); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == pongResponse
}
