package utility

import (
	"clapshot/internal/devices"
	"fmt"
)

// ColorHex converts an ARGB1555 color to a #rrggbb string. The alpha bit is
// ignored.
func ColorHex(c devices.Color) string {
	r := expand5(uint8(c>>10) & 0x1F)
	g := expand5(uint8(c>>5) & 0x1F)
	b := expand5(uint8(c) & 0x1F)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func expand5(v uint8) uint8 {
	return v<<3 | v>>2
}
