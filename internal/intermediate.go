package internal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/tahsinrahman/tuple-shuffle/internal/tuple"
)

// maxRecordPart bounds a single key or value so a corrupt length prefix
// cannot make the reader allocate without limit.
const maxRecordPart = 64 << 20

// snappyStreamMagic is the stream identifier chunk every snappy framed stream
// starts with.
var snappyStreamMagic = []byte("\xff\x06\x00\x00sNaPpY")

// recordWriter appends framed key/value records to one intermediate file:
// varint key length, encoded key tuple, varint value length, value bytes.
type recordWriter struct {
	name    string
	file    *os.File
	buf     *bufio.Writer
	snappy  *snappy.Writer
	w       io.Writer
	scratch []byte
	records int
}

func intermediateFileName(dir string, mapTask int32, partition int) string {
	return filepath.Join(dir, fmt.Sprintf("mr-%d-%d-%s", mapTask, partition, uuid.NewString()))
}

func createRecordWriter(name string, compress bool) (*recordWriter, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	rw := &recordWriter{
		name: name,
		file: f,
		buf:  bufio.NewWriter(f),
	}
	rw.w = rw.buf
	if compress {
		rw.snappy = snappy.NewBufferedWriter(rw.buf)
		rw.w = rw.snappy
	}
	return rw, nil
}

func (rw *recordWriter) Write(kv KeyValue) error {
	if kv.Key == nil {
		return errors.Errorf("record with value %q has no key", kv.Value)
	}
	key, err := tuple.AppendTuple(nil, kv.Key)
	if err != nil {
		return errors.Wrapf(err, "failed to encode key %s", kv.Key)
	}

	b := rw.scratch[:0]
	b = protowire.AppendVarint(b, uint64(len(key)))
	b = append(b, key...)
	b = protowire.AppendVarint(b, uint64(len(kv.Value)))
	b = append(b, kv.Value...)
	rw.scratch = b

	if _, err := rw.w.Write(b); err != nil {
		return errors.Wrapf(err, "failed to write record to %s", rw.name)
	}
	rw.records++
	return nil
}

// Close flushes every buffered record and closes the file. It returns the
// size of the file on disk.
func (rw *recordWriter) Close() (int64, error) {
	defer rw.file.Close()

	if rw.snappy != nil {
		if err := rw.snappy.Close(); err != nil {
			return 0, err
		}
	}
	if err := rw.buf.Flush(); err != nil {
		return 0, err
	}
	info, err := rw.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), rw.file.Close()
}

// recordReader decodes the records of one intermediate file. Compressed files
// are recognised by their snappy stream header.
type recordReader struct {
	name string
	file *os.File
	r    *bufio.Reader
}

func openRecordReader(name string) (*recordReader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	r := bufio.NewReader(f)
	if magic, _ := r.Peek(len(snappyStreamMagic)); bytes.Equal(magic, snappyStreamMagic) {
		r = bufio.NewReader(snappy.NewReader(r))
	}
	return &recordReader{name: name, file: f, r: r}, nil
}

// Next returns the next record, or io.EOF once the file is exhausted.
func (rr *recordReader) Next() (KeyValue, error) {
	keyBytes, err := rr.readPart()
	if err == io.EOF {
		return KeyValue{}, io.EOF
	}
	if err != nil {
		return KeyValue{}, err
	}
	key, n, err := tuple.ReadTuple(keyBytes)
	if err != nil {
		return KeyValue{}, errors.Wrapf(err, "bad key in %s", rr.name)
	}
	if n != len(keyBytes) {
		return KeyValue{}, errors.Errorf("bad key in %s: %d trailing bytes", rr.name, len(keyBytes)-n)
	}

	value, err := rr.readPart()
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return KeyValue{}, err
	}
	return KeyValue{Key: key, Value: string(value)}, nil
}

func (rr *recordReader) readPart() ([]byte, error) {
	n, err := binary.ReadUvarint(rr.r)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read record length from %s", rr.name)
	}
	if n > maxRecordPart {
		return nil, errors.Errorf("record part of %d bytes in %s exceeds the limit", n, rr.name)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rr.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrapf(err, "failed to read record from %s", rr.name)
	}
	return b, nil
}

func (rr *recordReader) Close() error {
	return rr.file.Close()
}

// ReadIntermediateFile decodes every record of an intermediate file.
func ReadIntermediateFile(name string) ([]KeyValue, error) {
	rr, err := openRecordReader(name)
	if err != nil {
		return nil, err
	}
	defer rr.Close()

	var kvs []KeyValue
	for {
		kv, err := rr.Next()
		if err == io.EOF {
			return kvs, nil
		}
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, kv)
	}
}

// readIntermediateFiles decodes files concurrently and concatenates their
// records in the order the files are listed.
func readIntermediateFiles(ctx context.Context, files []string) ([]KeyValue, error) {
	parts := make([][]KeyValue, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			kvs, err := ReadIntermediateFile(f)
			if err != nil {
				return errors.Wrapf(err, "failed to read intermediate file %s", f)
			}
			parts[i] = kvs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, p := range parts {
		total += len(p)
	}
	kvs := make([]KeyValue, 0, total)
	for _, p := range parts {
		kvs = append(kvs, p...)
	}
	return kvs, nil
}
