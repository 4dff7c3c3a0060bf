package otquery

import "time"

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func i16(b []byte) int16 {
	return int16(u16(b))
}

func u32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

func i64(b []byte) int64 {
	return int64(u32(b))<<32 | int64(u32(b[4:]))
}

// OpenType LONGDATETIME values count seconds since 1904-01-01, midnight UTC.
var epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

func longDateTime(b []byte) time.Time {
	return epoch1904.Add(time.Duration(i64(b)) * time.Second)
}
