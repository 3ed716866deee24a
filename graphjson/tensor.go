package graphjson

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/strand-ir/go-strand/ir"
)

// tensorMagic heads every serialized tensor stream.
const tensorMagic uint64 = 0xB7C3A914D2E85F60

// tensor stream layout, all little endian:
//
//	u64 magic, u64 reserved,
//	i32 device type, i32 device id,
//	i32 ndim, u8 dtype code, u8 dtype bits, u16 dtype lanes,
//	i64 shape[ndim], i64 byte size, raw data
func encodeTensor(t *ir.NDArray) (string, error) {
	if !t.IsCPU() {
		return "", fmt.Errorf("can only serialize CPU tensors, got %s", t.Dev)
	}
	if !t.Contig {
		return "", fmt.Errorf("can only serialize contiguous tensors")
	}
	size := t.ByteSize()
	if int64(len(t.Data)) < size {
		return "", fmt.Errorf("tensor data shorter than %d bytes", size)
	}
	buf := &bytes.Buffer{}
	w := func(v any) { binary.Write(buf, binary.LittleEndian, v) }
	w(tensorMagic)
	w(uint64(0))
	w(int32(t.Dev.Type))
	w(t.Dev.ID)
	w(int32(t.NDim()))
	w(uint8(t.DType.Code))
	w(t.DType.Bits)
	w(t.DType.Lanes)
	for _, d := range t.Dims {
		w(d)
	}
	w(size)
	buf.Write(t.Data[:size])
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeTensor(blob string) (*ir.NDArray, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTensor, err)
	}
	r := bytes.NewReader(raw)
	rd := func(v any) error { return binary.Read(r, binary.LittleEndian, v) }

	var magic, reserved uint64
	if err := rd(&magic); err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrBadTensor)
	}
	if magic != tensorMagic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrBadTensor, magic)
	}
	var devType, devID, ndim int32
	var code, bits uint8
	var lanes uint16
	for _, v := range []any{&reserved, &devType, &devID, &ndim, &code, &bits, &lanes} {
		if err := rd(v); err != nil {
			return nil, fmt.Errorf("%w: truncated header", ErrBadTensor)
		}
	}
	if ndim < 0 || int64(ndim) > int64(r.Len())/8 {
		return nil, fmt.Errorf("%w: implausible ndim %d", ErrBadTensor, ndim)
	}
	t := &ir.NDArray{
		DType:  ir.DataType{Code: ir.DataTypeCode(code), Bits: bits, Lanes: lanes},
		Dims:   make([]int64, ndim),
		Dev:    ir.Device{Type: ir.DeviceType(devType), ID: devID},
		Contig: true,
	}
	for i := range t.Dims {
		if err := rd(&t.Dims[i]); err != nil {
			return nil, fmt.Errorf("%w: truncated shape", ErrBadTensor)
		}
	}
	var size int64
	if err := rd(&size); err != nil {
		return nil, fmt.Errorf("%w: truncated size", ErrBadTensor)
	}
	if size != t.ByteSize() {
		return nil, fmt.Errorf("%w: size %d does not match shape (want %d)",
			ErrBadTensor, size, t.ByteSize())
	}
	if int64(r.Len()) != size {
		return nil, fmt.Errorf("%w: %d data bytes, want %d", ErrBadTensor, r.Len(), size)
	}
	t.Data = make([]byte, size)
	if _, err := r.Read(t.Data); err != nil && size > 0 {
		return nil, fmt.Errorf("%w: truncated data", ErrBadTensor)
	}
	return t, nil
}
