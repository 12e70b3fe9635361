// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

// Key is the type of keyboard keys.
type Key int

// Keyboard keys.
const (
	KeyUnknown Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
	KeyMinus
	KeyEqual
	KeyBackspace
	KeyTab
	KeyQ
	KeyW
	KeyE
	KeyR
	KeyT
	KeyY
	KeyU
	KeyI
	KeyO
	KeyP
	KeyLBracket
	KeyRBracket
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	KeyH
	KeyJ
	KeyK
	KeyL
	KeyReturn
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyB
	KeyN
	KeyM
	KeyComma
	KeyDot
	KeySpace
	KeyEsc
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// keyFrom returns the Key value that represents a
// single-byte key code, and whether the byte implies
// the shift modifier.
func keyFrom(code byte) (Key, Modifier) {
	if int(code) >= len(keymap) {
		return KeyUnknown, 0
	}
	return keymap[code].key, keymap[code].mod
}

type keyCode struct {
	key Key
	mod Modifier
}

// keymap maps ASCII codes to keys.
var keymap = func() (m [128]keyCode) {
	for i, k := range [...]Key{Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9} {
		m['0'+i] = keyCode{k, 0}
	}
	for i, k := range [...]Key{
		KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
		KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
	} {
		m['a'+i] = keyCode{k, 0}
		m['A'+i] = keyCode{k, ModShift}
	}
	for i, k := range [...]Key{
		KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, 0, 0, KeyK, KeyL, 0,
		KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
	} {
		if k != 0 {
			m[1+i] = keyCode{k, ModCtrl}
		}
	}
	m['-'] = keyCode{KeyMinus, 0}
	m['_'] = keyCode{KeyMinus, ModShift}
	m['='] = keyCode{KeyEqual, 0}
	m['+'] = keyCode{KeyEqual, ModShift}
	m['['] = keyCode{KeyLBracket, 0}
	m['{'] = keyCode{KeyLBracket, ModShift}
	m[']'] = keyCode{KeyRBracket, 0}
	m['}'] = keyCode{KeyRBracket, ModShift}
	m[','] = keyCode{KeyComma, 0}
	m['<'] = keyCode{KeyComma, ModShift}
	m['.'] = keyCode{KeyDot, 0}
	m['>'] = keyCode{KeyDot, ModShift}
	m[' '] = keyCode{KeySpace, 0}
	m['\t'] = keyCode{KeyTab, 0}
	m['\r'] = keyCode{KeyReturn, 0}
	m['\n'] = keyCode{KeyReturn, 0}
	m[0x7f] = keyCode{KeyBackspace, 0}
	m[0x1b] = keyCode{KeyEsc, 0}
	return
}()

// keyEvent is a decoded key press.
type keyEvent struct {
	key Key
	mod Modifier
}

// ctrlC is the byte that a terminal in raw mode sends
// for Ctrl+C. It is reported as a close request rather
// than as a key.
const ctrlC = 0x03

// decodeKeys decodes the terminal input in b.
// It returns the key events and whether a close was
// requested. Incomplete escape sequences at the end of
// b are decoded as KeyEsc followed by their bytes.
func decodeKeys(b []byte) (evs []keyEvent, closeReq bool) {
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c == ctrlC {
			closeReq = true
			continue
		}
		if c == 0x1b && i+2 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
			if k, n := decodeCSI(b[i+2:]); n > 0 {
				evs = append(evs, keyEvent{k, 0})
				i += 1 + n
				continue
			}
		}
		if c == 0x1b && i+1 < len(b) && b[i+1] != 0x1b && b[i+1] != '[' && b[i+1] != 'O' {
			// ESC followed by a key is Alt+key.
			k, m := keyFrom(b[i+1])
			if k != KeyUnknown {
				evs = append(evs, keyEvent{k, m | ModAlt})
				i++
				continue
			}
		}
		if k, m := keyFrom(c); k != KeyUnknown {
			evs = append(evs, keyEvent{k, m})
		}
	}
	return
}

// decodeCSI decodes the part of an escape sequence
// that follows "ESC [" or "ESC O". It returns the key
// and the number of bytes consumed, or zero if the
// sequence is not recognized.
func decodeCSI(b []byte) (Key, int) {
	switch b[0] {
	case 'A':
		return KeyUp, 1
	case 'B':
		return KeyDown, 1
	case 'C':
		return KeyRight, 1
	case 'D':
		return KeyLeft, 1
	case 'H':
		return KeyHome, 1
	case 'F':
		return KeyEnd, 1
	}
	if len(b) >= 2 && b[1] == '~' {
		switch b[0] {
		case '1', '7':
			return KeyHome, 2
		case '4', '8':
			return KeyEnd, 2
		case '5':
			return KeyPageUp, 2
		case '6':
			return KeyPageDown, 2
		}
	}
	return KeyUnknown, 0
}
