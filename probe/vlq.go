package probe

import "github.com/Alloy-Embedded/alloy-sub003/errcode"

// Variable-length integer coding. Seven payload bits per byte, most
// significant group first, bit 7 set on every byte but the last. Signed
// values ride the same encoding: the decoder sign-extends when the top
// group's bit 5 and bit 6 are both set, so small negative numbers cost
// one byte.

// AppendUint appends the encoding of v to dst.
func AppendUint(dst []byte, v uint32) []byte {
	return AppendInt(dst, int32(v))
}

// AppendInt appends the encoding of v to dst.
func AppendInt(dst []byte, v int32) []byte {
	if !(-(1<<26) <= v && v < (3<<26)) {
		dst = append(dst, byte((v>>28)&0x7f)|0x80)
	}
	if !(-(1<<19) <= v && v < (3<<19)) {
		dst = append(dst, byte((v>>21)&0x7f)|0x80)
	}
	if !(-(1<<12) <= v && v < (3<<12)) {
		dst = append(dst, byte((v>>14)&0x7f)|0x80)
	}
	if !(-(1<<5) <= v && v < (3<<5)) {
		dst = append(dst, byte((v>>7)&0x7f)|0x80)
	}
	return append(dst, byte(v&0x7f))
}

// AppendBytes appends b with a length prefix.
func AppendBytes(dst, b []byte) []byte {
	dst = AppendUint(dst, uint32(len(b)))
	return append(dst, b...)
}

// AppendString appends s with a length prefix.
func AppendString(dst []byte, s string) []byte {
	dst = AppendUint(dst, uint32(len(s)))
	return append(dst, s...)
}

// ReadInt decodes one integer from *data, advancing past the consumed
// bytes.
func ReadInt(data *[]byte) (int32, error) {
	if len(*data) == 0 {
		return 0, errcode.New(errcode.Error, "probe.ReadInt", "short buffer")
	}
	c := uint32((*data)[0])
	*data = (*data)[1:]

	v := c & 0x7f
	if c&0x60 == 0x60 {
		v |= ^uint32(0x1f) // sign extend
	}
	for c&0x80 != 0 {
		if len(*data) == 0 {
			return 0, errcode.New(errcode.Error, "probe.ReadInt", "short buffer")
		}
		c = uint32((*data)[0])
		*data = (*data)[1:]
		v = v<<7 | c&0x7f
	}
	return int32(v), nil
}

// ReadUint decodes one unsigned integer from *data.
func ReadUint(data *[]byte) (uint32, error) {
	v, err := ReadInt(data)
	return uint32(v), err
}

// ReadBytes decodes one length-prefixed byte string from *data. The
// result aliases the input.
func ReadBytes(data *[]byte) ([]byte, error) {
	n, err := ReadUint(data)
	if err != nil {
		return nil, err
	}
	if uint32(len(*data)) < n {
		return nil, errcode.New(errcode.Error, "probe.ReadBytes", "short buffer")
	}
	b := (*data)[:n]
	*data = (*data)[n:]
	return b, nil
}

// ReadString decodes one length-prefixed string from *data.
func ReadString(data *[]byte) (string, error) {
	b, err := ReadBytes(data)
	return string(b), err
}
