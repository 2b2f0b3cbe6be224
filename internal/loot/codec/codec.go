// Package codec implements the compact binary wire formats for a single
// item and for an interned-string item collection, matching the
// reference byte layout exactly (spec §4.H). Decoding a collection
// reconstructs each item via the replay engine, so a decoder needs a
// *replay.Engine bound to the current Config.
package codec

import (
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/LukeThayer/loot-generator/internal/loot/item"
	"github.com/LukeThayer/loot-generator/internal/loot/replay"
)

const (
	binaryVersion = 1
	opKindCurrency = 0
)

var collectionMagic = [4]byte{'L', 'O', 'O', 'T'}

// EncodeItem writes it's identity tuple in the single-item wire format.
func EncodeItem(w io.Writer, it *item.Item) error {
	if _, err := w.Write([]byte{binaryVersion}); err != nil {
		return err
	}
	if err := writeString(w, it.BaseTypeID); err != nil {
		return err
	}
	if err := writeUint64(w, it.Seed); err != nil {
		return err
	}
	opsCount := clampUint16(len(it.Operations))
	if err := writeUint16(w, opsCount); err != nil {
		return err
	}
	for _, op := range it.Operations[:opsCount] {
		if err := writeOperation(w, op); err != nil {
			return err
		}
	}
	return nil
}

func writeOperation(w io.Writer, op item.Operation) error {
	switch op.Kind {
	case item.OpCurrency:
		if _, err := w.Write([]byte{opKindCurrency}); err != nil {
			return err
		}
		return writeString(w, op.CurrencyID)
	}
	return nil
}

// DecodeItem reads the single-item wire format and reconstructs the
// item via eng (spec §4.G: decoding always replays through the
// currency engine rather than trusting stored derived fields).
func DecodeItem(r io.Reader, eng *replay.Engine) (*item.Item, error) {
	version, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	if version != binaryVersion {
		return nil, &InvalidVersionError{Version: version}
	}

	baseTypeID, err := readString(r)
	if err != nil {
		return nil, err
	}
	seed, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	opsCount, err := readUint16(r)
	if err != nil {
		return nil, err
	}

	ops := make([]item.Operation, 0, opsCount)
	for i := uint16(0); i < opsCount; i++ {
		op, err := readOperation(r)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	it, err := eng.Reconstruct(baseTypeID, seed, ops)
	if err != nil {
		return nil, &BaseTypeNotFoundError{BaseTypeID: baseTypeID}
	}
	return it, nil
}

func readOperation(r io.Reader) (item.Operation, error) {
	kindByte, err := readUint8(r)
	if err != nil {
		return item.Operation{}, err
	}
	if kindByte != opKindCurrency {
		return item.Operation{}, &InvalidOperationKindError{Kind: kindByte}
	}
	id, err := readString(r)
	if err != nil {
		return item.Operation{}, err
	}
	return item.Operation{Kind: item.OpCurrency, CurrencyID: id}, nil
}

// Collection is a batch of items, encoded with a shared interned string
// table for every base type id and currency id referenced.
type Collection struct {
	Items []*item.Item
}

// EncodeCollection writes c in the interned-string collection wire
// format: every referenced string appears exactly once, in
// first-appearance order.
func EncodeCollection(w io.Writer, c *Collection) error {
	table := newStringTable()
	for _, it := range c.Items {
		table.intern(it.BaseTypeID)
		for _, op := range it.Operations {
			if op.Kind == item.OpCurrency {
				table.intern(op.CurrencyID)
			}
		}
	}

	if _, err := w.Write(collectionMagic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{binaryVersion}); err != nil {
		return err
	}

	tableCount := clampUint16(len(table.strings))
	if err := writeUint16(w, tableCount); err != nil {
		return err
	}
	for _, s := range table.strings[:tableCount] {
		if err := writeString(w, s); err != nil {
			return err
		}
	}

	itemsCount := clampUint32(len(c.Items))
	if err := writeUint32(w, itemsCount); err != nil {
		return err
	}
	for _, it := range c.Items[:itemsCount] {
		baseIdx := table.indices[it.BaseTypeID]
		if err := writeUint16(w, baseIdx); err != nil {
			return err
		}
		if err := writeUint64(w, it.Seed); err != nil {
			return err
		}
		opsCount := clampUint16(len(it.Operations))
		if err := writeUint16(w, opsCount); err != nil {
			return err
		}
		for _, op := range it.Operations[:opsCount] {
			if op.Kind != item.OpCurrency {
				continue
			}
			if _, err := w.Write([]byte{opKindCurrency}); err != nil {
				return err
			}
			idx := table.indices[op.CurrencyID]
			if err := writeUint16(w, idx); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodeCollection reads the interned-string collection wire format,
// reconstructing each item via eng. A base-type id with no entry in
// eng's Config is a BaseTypeNotFoundError keyed by that id.
func DecodeCollection(r io.Reader, eng *replay.Engine) (*Collection, error) {
	var magic [4]byte
	if err := readFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != collectionMagic {
		return nil, ErrInvalidMagic
	}

	version, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	if version != binaryVersion {
		return nil, &InvalidVersionError{Version: version}
	}

	tableCount, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	table := make([]string, tableCount)
	for i := range table {
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		table[i] = s
	}

	lookup := func(idx uint16) (string, error) {
		if int(idx) >= len(table) {
			return "", &InvalidStringIndexError{Index: idx}
		}
		return table[idx], nil
	}

	itemsCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}

	items := make([]*item.Item, 0, itemsCount)
	for i := uint32(0); i < itemsCount; i++ {
		baseIdx, err := readUint16(r)
		if err != nil {
			return nil, err
		}
		baseTypeID, err := lookup(baseIdx)
		if err != nil {
			return nil, err
		}

		seed, err := readUint64(r)
		if err != nil {
			return nil, err
		}

		opsCount, err := readUint16(r)
		if err != nil {
			return nil, err
		}
		ops := make([]item.Operation, 0, opsCount)
		for j := uint16(0); j < opsCount; j++ {
			kindByte, err := readUint8(r)
			if err != nil {
				return nil, err
			}
			if kindByte != opKindCurrency {
				return nil, &InvalidOperationKindError{Kind: kindByte}
			}
			idx, err := readUint16(r)
			if err != nil {
				return nil, err
			}
			currencyID, err := lookup(idx)
			if err != nil {
				return nil, err
			}
			ops = append(ops, item.Operation{Kind: item.OpCurrency, CurrencyID: currencyID})
		}

		it, err := eng.Reconstruct(baseTypeID, seed, ops)
		if err != nil {
			return nil, &BaseTypeNotFoundError{BaseTypeID: baseTypeID}
		}
		items = append(items, it)
	}

	return &Collection{Items: items}, nil
}

type stringTable struct {
	strings []string
	indices map[string]uint16
}

func newStringTable() *stringTable {
	return &stringTable{indices: make(map[string]uint16)}
}

func (t *stringTable) intern(s string) uint16 {
	if idx, ok := t.indices[s]; ok {
		return idx
	}
	idx := uint16(len(t.strings))
	t.strings = append(t.strings, s)
	t.indices[s] = idx
	return idx
}

func clampUint16(n int) uint16 {
	if n > 0xFFFF {
		return 0xFFFF
	}
	return uint16(n)
}

func clampUint32(n int) uint32 {
	if n > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(n)
}

func writeString(w io.Writer, s string) error {
	b := []byte(s)
	n := len(b)
	if n > 255 {
		n = 255
	}
	if _, err := w.Write([]byte{byte(n)}); err != nil {
		return err
	}
	_, err := w.Write(b[:n])
	return err
}

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func readUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readString(r io.Reader) (string, error) {
	length, err := readUint8(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if err := readFull(r, buf); err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}
