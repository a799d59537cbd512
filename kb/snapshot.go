package kb

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/simgo/internal/bitmap"
	"github.com/hupe1980/simgo/internal/conv"
	ihash "github.com/hupe1980/simgo/internal/hash"
)

// Compression selects the codec applied to a snapshot body.
type Compression uint8

const (
	// CompressionNone stores the body as is.
	CompressionNone Compression = 0
	// CompressionLZ4 favours load speed.
	CompressionLZ4 Compression = 1
	// CompressionZSTD favours size.
	CompressionZSTD Compression = 2
)

const (
	snapshotVersion = 1

	// Upper bounds applied while decoding untrusted input.
	maxStringLen = 1 << 20
	maxBlobLen   = 1 << 30
	maxNodes     = 1 << 24
	maxIDs       = 1 << 16
)

var snapshotMagic = [4]byte{'S', 'M', 'K', 'B'}

// Snapshot layout:
//
//	[magic "SMKB"][version u16][compression u8]
//	body (compressed as a stream):
//	  [numClasses u32][numIndividuals u32][root u32]
//	  per class:      [frequency u32][label str][numIDs u32][ids str...]
//	  per individual: [label str][numIDs u32][ids str...]
//	  per class:      directSuper, super, directSub, sub, directInstances
//	  per individual: directTypes, types, directNegated, negated
//	  [crc32c u32] of everything above in the body
//
// Strings and bitmaps are length prefixed (u32). All integers are little endian.

// WriteSnapshot serializes the knowledge base.
func (kb *KnowledgeBase) WriteSnapshot(w io.Writer, c Compression) error {
	var header [7]byte
	copy(header[:4], snapshotMagic[:])
	binary.LittleEndian.PutUint16(header[4:], snapshotVersion)
	header[6] = byte(c)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	var (
		body  io.WriteCloser
		err   error
		plain = &nopWriteCloser{w}
	)
	switch c {
	case CompressionNone:
		body = plain
	case CompressionLZ4:
		body = lz4.NewWriter(w)
	case CompressionZSTD:
		body, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: compression %d", ErrIncompatibleFormat, c)
	}

	bw := bufio.NewWriter(body)
	enc := &encoder{w: bw, crc: ihash.NewCRC32C()}
	kb.encode(enc)
	if enc.err != nil {
		return enc.err
	}
	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], enc.crc.Sum32())
	if _, err := bw.Write(sum[:]); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return body.Close()
}

func (kb *KnowledgeBase) encode(e *encoder) {
	e.count(len(kb.classes))
	e.count(len(kb.individuals))
	e.u32(kb.root)

	for _, n := range kb.classes {
		e.count(n.Instances)
		e.str(n.Label)
		e.strs(n.IDs)
	}
	for _, n := range kb.individuals {
		e.str(n.Label)
		e.strs(n.IDs)
	}
	for c := range kb.classes {
		e.bitmap(kb.directSuper[c])
		e.bitmap(kb.super[c])
		e.bitmap(kb.directSub[c])
		e.bitmap(kb.sub[c])
		e.bitmap(kb.directInstances[c])
	}
	for i := range kb.individuals {
		e.bitmap(kb.directTypes[i])
		e.bitmap(kb.types[i])
		e.bitmap(kb.directNegated[i])
		e.bitmap(kb.negated[i])
	}
}

// ReadSnapshot decodes a knowledge base written by WriteSnapshot.
// Only WithInstanceCacheSize is honoured; the root is part of the snapshot.
func ReadSnapshot(r io.Reader, optFns ...Option) (*KnowledgeBase, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	var header [7]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorruptSnapshot, err)
	}
	if [4]byte(header[:4]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptSnapshot)
	}
	if v := binary.LittleEndian.Uint16(header[4:]); v != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrIncompatibleFormat, v)
	}

	var body io.Reader
	switch c := Compression(header[6]); c {
	case CompressionNone:
		body = r
	case CompressionLZ4:
		body = lz4.NewReader(r)
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		body = dec
	default:
		return nil, fmt.Errorf("%w: compression %d", ErrIncompatibleFormat, c)
	}

	d := &decoder{r: bufio.NewReader(body), crc: ihash.NewCRC32C()}
	kb := decodeKnowledgeBase(d)
	if d.err != nil {
		return nil, d.err
	}
	want := d.crc.Sum32()
	var sum [4]byte
	if _, err := io.ReadFull(d.r, sum[:]); err != nil {
		return nil, fmt.Errorf("%w: checksum: %w", ErrCorruptSnapshot, err)
	}
	if got := binary.LittleEndian.Uint32(sum[:]); got != want {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptSnapshot)
	}

	if err := kb.finish(o); err != nil {
		return nil, err
	}
	return kb, nil
}

func decodeKnowledgeBase(d *decoder) *KnowledgeBase {
	nc := d.count(maxNodes)
	ni := d.count(maxNodes)
	root := d.u32()
	if d.err != nil {
		return nil
	}
	if root >= uint32(nc) {
		d.fail(fmt.Errorf("%w: root %d >= %d", ErrCorruptSnapshot, root, nc))
		return nil
	}

	kb := &KnowledgeBase{
		root:            root,
		classes:         make([]ClassNode, nc),
		individuals:     make([]IndividualNode, ni),
		directSuper:     make([]*bitmap.Bitmap, nc),
		super:           make([]*bitmap.Bitmap, nc),
		directSub:       make([]*bitmap.Bitmap, nc),
		sub:             make([]*bitmap.Bitmap, nc),
		directInstances: make([]*bitmap.Bitmap, nc),
		directTypes:     make([]*bitmap.Bitmap, ni),
		types:           make([]*bitmap.Bitmap, ni),
		directNegated:   make([]*bitmap.Bitmap, ni),
		negated:         make([]*bitmap.Bitmap, ni),
	}
	for c := range kb.classes {
		kb.classes[c].Instances = d.count(maxNodes)
		kb.classes[c].Frequency = max(kb.classes[c].Instances, 1)
		kb.classes[c].Label = d.str()
		kb.classes[c].IDs = d.strs()
	}
	for i := range kb.individuals {
		kb.individuals[i].Label = d.str()
		kb.individuals[i].IDs = d.strs()
	}
	cdim, idim := uint32(nc), uint32(ni)
	for c := range kb.classes {
		kb.directSuper[c] = d.bitmap(cdim)
		kb.super[c] = d.bitmap(cdim)
		kb.directSub[c] = d.bitmap(cdim)
		kb.sub[c] = d.bitmap(cdim)
		kb.directInstances[c] = d.bitmap(idim)
	}
	for i := range kb.individuals {
		kb.directTypes[i] = d.bitmap(cdim)
		kb.types[i] = d.bitmap(cdim)
		kb.directNegated[i] = d.bitmap(cdim)
		kb.negated[i] = d.bitmap(cdim)
	}
	return kb
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// encoder writes length-prefixed fields and keeps the first error.
type encoder struct {
	w   io.Writer
	crc hash.Hash32
	err error
	buf [4]byte
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
		return
	}
	_, _ = e.crc.Write(p)
}

func (e *encoder) u32(v uint32) {
	binary.LittleEndian.PutUint32(e.buf[:], v)
	e.write(e.buf[:])
}

func (e *encoder) count(n int) {
	v, err := conv.IntToUint32(n)
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		return
	}
	e.u32(v)
}

func (e *encoder) blob(p []byte) {
	e.count(len(p))
	e.write(p)
}

func (e *encoder) str(s string) { e.blob([]byte(s)) }

func (e *encoder) strs(ss []string) {
	e.count(len(ss))
	for _, s := range ss {
		e.str(s)
	}
}

func (e *encoder) bitmap(bm *bitmap.Bitmap) {
	if e.err != nil {
		return
	}
	p, err := bm.MarshalBinary()
	if err != nil {
		e.err = err
		return
	}
	e.blob(p)
}

// decoder mirrors encoder and keeps the first error.
type decoder struct {
	r   *bufio.Reader
	crc hash.Hash32
	err error
	buf [4]byte
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) read(p []byte) {
	if d.err != nil {
		return
	}
	if _, err := io.ReadFull(d.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: truncated body", ErrCorruptSnapshot)
		}
		d.fail(err)
		return
	}
	_, _ = d.crc.Write(p)
}

func (d *decoder) u32() uint32 {
	d.read(d.buf[:])
	if d.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(d.buf[:])
}

func (d *decoder) count(limit int) int {
	v := d.u32()
	n, err := conv.Uint32ToInt(v)
	if err != nil {
		d.fail(err)
		return 0
	}
	if n > limit {
		d.fail(fmt.Errorf("%w: length %d exceeds %d", ErrCorruptSnapshot, n, limit))
		return 0
	}
	return n
}

func (d *decoder) blob(limit int) []byte {
	n := d.count(limit)
	if d.err != nil {
		return nil
	}
	p := make([]byte, n)
	d.read(p)
	return p
}

func (d *decoder) str() string { return string(d.blob(maxStringLen)) }

func (d *decoder) strs() []string {
	n := d.count(maxIDs)
	if d.err != nil {
		return nil
	}
	if n == 0 {
		d.fail(fmt.Errorf("%w: node without ids", ErrCorruptSnapshot))
		return nil
	}
	ss := make([]string, 0, n)
	for range n {
		ss = append(ss, d.str())
	}
	return ss
}

func (d *decoder) bitmap(dim uint32) *bitmap.Bitmap {
	p := d.blob(maxBlobLen)
	if d.err != nil {
		return nil
	}
	bm, err := bitmap.Unmarshal(dim, p)
	if err != nil {
		d.fail(fmt.Errorf("%w: %w", ErrCorruptSnapshot, err))
		return nil
	}
	return bm
}
