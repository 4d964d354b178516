package filter

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"

	"github.com/columbia/loom"
)

// parse implements the §6.2 filter-file grammar: a header line
// "<kind:int> <num_ops:unsigned>" followed by exactly num_ops lines of
// "<entry_or_exit:int> <slot_id:unsigned>". Any violation — short file,
// non-numeric token, wrong line count, unrecognized kind — is reported
// as loom.ErrMalformedFilter.
func parse(contents []byte) (*spec, error) {
	sc := bufio.NewScanner(bytes.NewReader(contents))

	if !sc.Scan() {
		return nil, fmt.Errorf("filter: empty file: %w", loom.ErrMalformedFilter)
	}
	kindN, numOps, err := parseHeader(sc.Text())
	if err != nil {
		return nil, err
	}

	kind := Kind(kindN)
	if kind != CriticalRegion {
		return nil, fmt.Errorf("filter: unrecognized kind %d: %w", kindN, loom.ErrMalformedFilter)
	}

	ops := make([]specOp, 0, numOps)
	for i := 0; i < numOps; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("filter: expected %d ops, got %d: %w", numOps, i, loom.ErrMalformedFilter)
		}
		op, err := parseOpLine(sc.Text())
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	if sc.Scan() {
		return nil, fmt.Errorf("filter: trailing data after %d ops: %w", numOps, loom.ErrMalformedFilter)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("filter: %w: %w", err, loom.ErrMalformedFilter)
	}

	return &spec{kind: kind, ops: ops}, nil
}

func parseHeader(line string) (kind, numOps int, err error) {
	var fields [2]string
	n, err := fmt.Sscan(line, &fields[0], &fields[1])
	if err != nil || n != 2 {
		return 0, 0, fmt.Errorf("filter: malformed header %q: %w", line, loom.ErrMalformedFilter)
	}
	kind, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("filter: malformed kind %q: %w", fields[0], loom.ErrMalformedFilter)
	}
	numOps, err = strconv.Atoi(fields[1])
	if err != nil || numOps < 0 {
		return 0, 0, fmt.Errorf("filter: malformed op count %q: %w", fields[1], loom.ErrMalformedFilter)
	}
	return kind, numOps, nil
}

func parseOpLine(line string) (specOp, error) {
	var fields [2]string
	n, err := fmt.Sscan(line, &fields[0], &fields[1])
	if err != nil || n != 2 {
		return specOp{}, fmt.Errorf("filter: malformed op line %q: %w", line, loom.ErrMalformedFilter)
	}
	entryExit, err := strconv.Atoi(fields[0])
	if err != nil {
		return specOp{}, fmt.Errorf("filter: malformed entry/exit tag %q: %w", fields[0], loom.ErrMalformedFilter)
	}
	slotID, err := strconv.Atoi(fields[1])
	if err != nil || slotID < 0 {
		return specOp{}, fmt.Errorf("filter: malformed slot id %q: %w", fields[1], loom.ErrMalformedFilter)
	}

	k := exit
	if entryExit == 0 {
		k = entry
	}
	return specOp{kind: k, slotID: slotID}, nil
}
