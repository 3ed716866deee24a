package ir

import (
	"fmt"
	"strconv"
)

type DeviceType int32

const (
	DeviceCPU  DeviceType = 1
	DeviceCUDA DeviceType = 2
	DeviceROCm DeviceType = 10
)

func (t DeviceType) String() string {
	switch t {
	case DeviceCPU:
		return "cpu"
	case DeviceCUDA:
		return "cuda"
	case DeviceROCm:
		return "rocm"
	default:
		return "device(" + strconv.Itoa(int(t)) + ")"
	}
}

// Device locates a tensor: a device kind and an ordinal on that kind.
type Device struct {
	Type DeviceType
	ID   int32
}

func CPU(id int32) Device { return Device{Type: DeviceCPU, ID: id} }

func (d Device) pack() int64 {
	return int64(uint32(d.Type)) | int64(d.ID)<<32
}

func unpackDevice(v int64) Device {
	return Device{Type: DeviceType(int32(v)), ID: int32(v >> 32)}
}

func (d Device) String() string {
	return fmt.Sprintf("%s:%d", d.Type, d.ID)
}
