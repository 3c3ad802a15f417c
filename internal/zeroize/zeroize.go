// Package zeroize provides the single memclear primitive the key and
// signature code uses to scrub sensitive buffers before they go out of
// scope. Grounded on the teacher's field.go memclear: a byte-at-a-time
// volatile-style write through unsafe.Pointer so the compiler can't elide
// it as a dead store.
package zeroize

import "unsafe"

// Bytes overwrites b with zeros in place.
func Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	ptr := unsafe.Pointer(&b[0])
	for i := uintptr(0); i < uintptr(len(b)); i++ {
		*(*byte)(unsafe.Pointer(uintptr(ptr) + i)) = 0
	}
}
