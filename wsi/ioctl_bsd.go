// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package wsi

import (
	"golang.org/x/sys/unix"
)

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)
