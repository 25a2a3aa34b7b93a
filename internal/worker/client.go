// Package worker implements the worker-side task executor and RPC loop
// from spec.md §4.7.
package worker

import (
	"fmt"
	"net/rpc"

	"github.com/pkg/errors"
)

// Client dials the coordinator fresh for every call, mirroring the
// teacher's call() helper (YousefRabi-map-reduce/src/mr/worker.go) but
// over TCP/HTTP instead of a Unix socket, per SPEC_FULL.md §6.
type Client struct {
	addr string
}

// NewClient builds a client targeting host:port.
func NewClient(host, port string) *Client {
	return &Client{addr: fmt.Sprintf("%s:%s", host, port)}
}

// Call dials, issues rpcName(args) -> reply, and closes the connection.
func (c *Client) Call(rpcName string, args, reply interface{}) error {
	conn, err := rpc.DialHTTP("tcp", c.addr)
	if err != nil {
		return errors.Wrapf(err, "dialing coordinator at %s", c.addr)
	}
	defer conn.Close()

	if err := conn.Call(rpcName, args, reply); err != nil {
		return errors.Wrapf(err, "calling %s", rpcName)
	}
	return nil
}
