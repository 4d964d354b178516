// Package daemon implements the control-channel client (spec §6.1): a
// single long-lived goroutine that dials out to a controller, handshakes,
// and then services one add/del filter command per message against a
// [filter.Registry], matching the source's RunDaemon/ProcessMessage.
package daemon

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"runtime"
	"sync"

	"github.com/columbia/loom"
	"github.com/columbia/loom/filter"
)

// handshake is the daemon's first, unsolicited message to the
// controller, per spec §6.1.
const handshake = "iam loom_daemon"

// Daemon is a running control-channel client. Construct one with [Start].
type Daemon struct {
	conn   net.Conn
	cancel context.CancelFunc

	stopOnce sync.Once
	done     chan struct{}
	err      error
}

// Start dials addr and starts a background goroutine that blocks signals
// and names the daemon's OS thread (Linux only; see signals_linux.go),
// sends the handshake, and services commands against registry. The
// returned Daemon's loop runs until ctx is canceled, [Daemon.Stop] is
// called, or the connection fails.
func Start(ctx context.Context, registry *filter.Registry, addr string) (*Daemon, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("daemon: dial %s: %w", addr, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	d := &Daemon{
		conn:   conn,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go d.run(ctx, registry)

	return d, nil
}

// Stop cancels the daemon's loop and closes its connection, then waits
// for the background goroutine to exit.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() {
		d.cancel()
		_ = d.conn.Close()
	})
	<-d.done
}

// Err returns the error that terminated the daemon's loop, if any
// (nil if Stop was called before a transport failure occurred).
func (d *Daemon) Err() error { return d.err }

func (d *Daemon) run(ctx context.Context, registry *filter.Registry) {
	defer close(d.done)

	// The source pins this loop to one OS thread before blocking its
	// signals, since signal masks are per-thread; without LockOSThread
	// the goroutine could migrate to an OS thread whose mask was never
	// set, or clobber the mask of a thread the Go runtime reuses for
	// something else.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := loom.Logger()

	if err := blockAllSignals(); err != nil {
		log.Err().Err(err).Log(`daemon: failed to block signals`)
	}
	if err := setThreadName("loom-daemon"); err != nil {
		log.Err().Err(err).Log(`daemon: failed to set thread name`)
	}

	log.Info().Log(`daemon: connected to controller`)

	if _, err := fmt.Fprintln(d.conn, handshake); err != nil {
		d.fail(fmt.Errorf("daemon: handshake: %w", err))
		return
	}

	go func() {
		<-ctx.Done()
		_ = d.conn.Close()
	}()

	sc := bufio.NewScanner(d.conn)
	for sc.Scan() {
		response := process(registry, sc.Text())
		if _, err := fmt.Fprintln(d.conn, response); err != nil {
			d.fail(fmt.Errorf("%w: %v", loom.ErrTransportFailure, err))
			return
		}
	}
	if err := sc.Err(); err != nil {
		if ctx.Err() != nil {
			// Stop or ctx cancellation closed our connection; not a
			// transport failure.
			return
		}
		d.fail(fmt.Errorf("%w: %v", loom.ErrTransportFailure, err))
		return
	}
	// EOF with no scanner error: the controller closed the connection.
	// The loop just ends.
}

func (d *Daemon) fail(err error) {
	d.err = err
	loom.Logger().Err().Err(err).Log(`daemon: control loop terminated`)
}
