package util

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadElement reads a little endian fixed size value into element.
func ReadElement(r io.Reader, element interface{}) error {
	var buf [8]byte
	switch e := element.(type) {
	case *int32:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return err
		}
		*e = int32(binary.LittleEndian.Uint32(buf[:4]))
	case *uint32:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return err
		}
		*e = binary.LittleEndian.Uint32(buf[:4])
	case *int64:
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = int64(binary.LittleEndian.Uint64(buf[:]))
	case *uint64:
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = binary.LittleEndian.Uint64(buf[:])
	case *Hash:
		if _, err := e.Unserialize(r); err != nil {
			return err
		}
	default:
		return fmt.Errorf("ReadElement: unsupported type %T", element)
	}
	return nil
}

func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		if err := ReadElement(r, element); err != nil {
			return err
		}
	}
	return nil
}

// WriteElement writes element in little endian order.
func WriteElement(w io.Writer, element interface{}) error {
	var buf [8]byte
	var err error
	switch e := element.(type) {
	case int32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(e))
		_, err = w.Write(buf[:4])
	case uint32:
		binary.LittleEndian.PutUint32(buf[:4], e)
		_, err = w.Write(buf[:4])
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(e))
		_, err = w.Write(buf[:])
	case uint64:
		binary.LittleEndian.PutUint64(buf[:], e)
		_, err = w.Write(buf[:])
	case *Hash:
		_, err = e.Serialize(w)
	case Hash:
		_, err = e.Serialize(w)
	default:
		err = fmt.Errorf("WriteElement: unsupported type %T", element)
	}
	return err
}

func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := WriteElement(w, element); err != nil {
			return err
		}
	}
	return nil
}
