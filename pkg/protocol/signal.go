package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/busybox42/Myrmex/pkg/types"
)

// SignalSize is the fixed frame length: seed + role + sender + hops + fee budget.
const SignalSize = types.SeedSize + 1 + 8 + 2 + 8

// Signal is one pheromone flood message. It is relayed hop by hop; the
// hop counter and fee budget shrink at every relay, the seed and role
// never change for the lifetime of a search.
type Signal struct {
	Seed      types.Seed
	Role      types.Role
	Sender    types.NodeID
	Hops      uint16
	FeeBudget int64
}

// Encode serializes the signal into a fixed-size big-endian frame.
func (s *Signal) Encode() ([]byte, error) {
	if !s.Role.Valid() {
		return nil, fmt.Errorf("cannot encode signal with invalid role %d", s.Role)
	}

	buf := new(bytes.Buffer)
	buf.Grow(SignalSize)

	buf.Write(s.Seed[:])

	if err := binary.Write(buf, binary.BigEndian, uint8(s.Role)); err != nil {
		return nil, fmt.Errorf("failed to write role: %w", err)
	}
	if err := binary.Write(buf, binary.BigEndian, int64(s.Sender)); err != nil {
		return nil, fmt.Errorf("failed to write sender: %w", err)
	}
	if err := binary.Write(buf, binary.BigEndian, s.Hops); err != nil {
		return nil, fmt.Errorf("failed to write hop counter: %w", err)
	}
	if err := binary.Write(buf, binary.BigEndian, s.FeeBudget); err != nil {
		return nil, fmt.Errorf("failed to write fee budget: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeSignal parses a frame produced by Encode. Frames of the wrong
// length or carrying an unknown role are rejected.
func DecodeSignal(data []byte) (*Signal, error) {
	if len(data) != SignalSize {
		return nil, fmt.Errorf("invalid signal frame length %d, want %d", len(data), SignalSize)
	}

	buf := bytes.NewReader(data)
	sig := &Signal{}

	if _, err := io.ReadFull(buf, sig.Seed[:]); err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}

	var role uint8
	if err := binary.Read(buf, binary.BigEndian, &role); err != nil {
		return nil, fmt.Errorf("failed to read role: %w", err)
	}
	sig.Role = types.Role(role)
	if !sig.Role.Valid() {
		return nil, fmt.Errorf("unknown signal role %d", role)
	}

	var sender int64
	if err := binary.Read(buf, binary.BigEndian, &sender); err != nil {
		return nil, fmt.Errorf("failed to read sender: %w", err)
	}
	sig.Sender = types.NodeID(sender)

	if err := binary.Read(buf, binary.BigEndian, &sig.Hops); err != nil {
		return nil, fmt.Errorf("failed to read hop counter: %w", err)
	}
	if err := binary.Read(buf, binary.BigEndian, &sig.FeeBudget); err != nil {
		return nil, fmt.Errorf("failed to read fee budget: %w", err)
	}

	return sig, nil
}
