// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package wsi

func init() { initDummy() }
