// Package frame provides encoding and decoding of the ASCII command frames.
package frame

// A command frame is a single line sent from the host to the device:
//
//	#<opcode>[<arg1,arg2,...>]:<counter><crc>\r\n
//
// The opcode is one character in [A-Za-z0-9?]. Arguments are decimal
// integers or at most one double-quoted string. The bracketed list is
// omitted when there are no arguments. Counter and CRC are each two
// lowercase hex digits. The CRC is CRC-8 (poly 0x07) over all bytes
// preceding it.
//
// The device answers with a reply line
//
//	#R[<status>,<value>,...]\r\n
//
// or emits diagnostic lines starting with "#!" at any time.
//
// Replies are decoded by taking the text between the first '[' and the
// first ']'. Nested lists, or strings containing ']', are not supported.
