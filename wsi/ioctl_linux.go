// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"golang.org/x/sys/unix"
)

const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS
)
