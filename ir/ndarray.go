package ir

// NDArray is an n-dimensional tensor: element type, extents, device
// placement, and a raw data buffer. Only CPU-resident contiguous tensors
// carry their data in Data.
type NDArray struct {
	DType  DataType
	Dims   []int64
	Dev    Device
	Data   []byte
	Contig bool
}

// NewNDArray allocates a contiguous CPU tensor of the given element type
// and extents, zero-filled.
func NewNDArray(dtype DataType, dims ...int64) *NDArray {
	t := &NDArray{
		DType:  dtype,
		Dims:   dims,
		Dev:    CPU(0),
		Contig: true,
	}
	t.Data = make([]byte, t.ByteSize())
	return t
}

func (t *NDArray) TypeKey() string { return NDArrayTypeKey }

func (t *NDArray) NDim() int { return len(t.Dims) }

// NumElements returns the element count, the product of all extents.
func (t *NDArray) NumElements() int64 {
	n := int64(1)
	for _, d := range t.Dims {
		n *= d
	}
	return n
}

// ByteSize returns the data size of a contiguous layout.
func (t *NDArray) ByteSize() int64 {
	return t.NumElements() * t.DType.ElemBytes()
}

// IsCPU reports whether the tensor data is host resident.
func (t *NDArray) IsCPU() bool { return t.Dev.Type == DeviceCPU }
