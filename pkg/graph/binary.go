package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"
)

const (
	magicBytes = "TDROUTCH"
	version    = uint32(1)
	maxNodes   = 50_000_000
	maxEdges   = 200_000_000
)

// fileHeader is the binary header of a contraction hierarchy file.
type fileHeader struct {
	Magic        [8]byte
	Version      uint32
	NumNodes     uint32
	NumArcs      uint32
	NumShortcuts uint32
	NumFwdEdges  uint32
	NumBwdEdges  uint32
}

// WriteCH serializes a contraction hierarchy. The file is written under a
// temporary name and renamed into place, and ends with a CRC32 of
// everything before it.
func WriteCH(path string, chg *CHGraph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // no-op after a successful rename
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{
		Version:      version,
		NumNodes:     chg.NumNodes,
		NumArcs:      chg.NumArcs,
		NumShortcuts: chg.NumShortcuts(),
		NumFwdEdges:  uint32(len(chg.FwdHead)),
		NumBwdEdges:  uint32(len(chg.BwdHead)),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	sections := []struct {
		name string
		v    []uint32
	}{
		{"Rank", chg.Rank},
		{"FwdFirstOut", chg.FwdFirstOut},
		{"FwdHead", chg.FwdHead},
		{"FwdWeight", chg.FwdWeight},
		{"FwdEdge", chg.FwdEdge},
		{"BwdFirstOut", chg.BwdFirstOut},
		{"BwdHead", chg.BwdHead},
		{"BwdWeight", chg.BwdWeight},
		{"BwdEdge", chg.BwdEdge},
		{"ShortcutFirst", chg.ShortcutFirst},
		{"ShortcutSecond", chg.ShortcutSecond},
	}
	for _, s := range sections {
		if err := writeUint32Slice(w, s.v); err != nil {
			return fmt.Errorf("write %s: %w", s.name, err)
		}
	}

	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadCH deserializes and validates a contraction hierarchy file.
func ReadCH(path string) (*CHGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.NumFwdEdges > maxEdges || hdr.NumBwdEdges > maxEdges || hdr.NumShortcuts > maxEdges {
		return nil, fmt.Errorf("edge count exceeds limit %d", maxEdges)
	}

	chg := &CHGraph{NumNodes: hdr.NumNodes, NumArcs: hdr.NumArcs}
	sections := []struct {
		name string
		n    uint32
		dst  *[]uint32
	}{
		{"Rank", hdr.NumNodes, &chg.Rank},
		{"FwdFirstOut", hdr.NumNodes + 1, &chg.FwdFirstOut},
		{"FwdHead", hdr.NumFwdEdges, &chg.FwdHead},
		{"FwdWeight", hdr.NumFwdEdges, &chg.FwdWeight},
		{"FwdEdge", hdr.NumFwdEdges, &chg.FwdEdge},
		{"BwdFirstOut", hdr.NumNodes + 1, &chg.BwdFirstOut},
		{"BwdHead", hdr.NumBwdEdges, &chg.BwdHead},
		{"BwdWeight", hdr.NumBwdEdges, &chg.BwdWeight},
		{"BwdEdge", hdr.NumBwdEdges, &chg.BwdEdge},
		{"ShortcutFirst", hdr.NumShortcuts, &chg.ShortcutFirst},
		{"ShortcutSecond", hdr.NumShortcuts, &chg.ShortcutSecond},
	}
	for _, s := range sections {
		if *s.dst, err = readUint32Slice(r, int(s.n)); err != nil {
			return nil, fmt.Errorf("read %s: %w", s.name, err)
		}
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	if err := CheckCH(chg); err != nil {
		return nil, err
	}
	return chg, nil
}

// CheckCH validates the structure of a contraction hierarchy: both CSR
// overlays, the edge ids they reference and the shortcut children.
func CheckCH(chg *CHGraph) error {
	if err := CheckCSR(chg.FwdFirstOut, chg.FwdHead); err != nil {
		return fmt.Errorf("forward overlay: %w", err)
	}
	if err := CheckCSR(chg.BwdFirstOut, chg.BwdHead); err != nil {
		return fmt.Errorf("backward overlay: %w", err)
	}
	if uint32(len(chg.FwdFirstOut)-1) != chg.NumNodes || uint32(len(chg.Rank)) != chg.NumNodes {
		return fmt.Errorf("%w: overlay size does not match %d nodes", ErrInvalidGraph, chg.NumNodes)
	}
	if len(chg.ShortcutFirst) != len(chg.ShortcutSecond) {
		return fmt.Errorf("%w: shortcut child arrays differ in length", ErrInvalidGraph)
	}
	numEdges := chg.NumArcs + chg.NumShortcuts()
	for _, edges := range [][]uint32{chg.FwdEdge, chg.BwdEdge} {
		for i, e := range edges {
			if e >= numEdges {
				return fmt.Errorf("%w: overlay edge %d references edge %d of %d", ErrInvalidGraph, i, e, numEdges)
			}
		}
	}
	for s := range chg.ShortcutFirst {
		id := chg.NumArcs + uint32(s)
		if chg.ShortcutFirst[s] >= id || chg.ShortcutSecond[s] >= id {
			return fmt.Errorf("%w: shortcut %d has a child that is not older", ErrInvalidGraph, id)
		}
	}
	return nil
}

// Zero-copy I/O helpers using unsafe.Slice.

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	s := make([]uint32, n)
	if n == 0 {
		return s, nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

// CRC32 wrapping writers/readers.

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
