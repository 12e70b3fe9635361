// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package wsi

import (
	"os"
)

func init() {
	if os.Getenv(EnvPlatform) != "none" {
		if err := initTerm(); err == nil {
			return
		}
	}
	initDummy()
}
