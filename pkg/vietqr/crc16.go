package vietqr

import "fmt"

// crc16 computes CRC-16/CCITT-FALSE: polynomial 0x1021, initial value
// 0xFFFF, no input or output reflection.
func crc16(data string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// ChecksumHex renders the payload checksum the way the CRC tag carries it,
// as 4 uppercase hex digits.
func ChecksumHex(data string) string {
	return fmt.Sprintf("%04X", crc16(data))
}
