// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"github.com/zsiec/ccx"

	"github.com/ik5/mediaflow/media"
)

// IsCaption reports whether sd carries closed captions: A/53 side data, or
// an SEI payload holding caption user data.
func IsCaption(sd media.SideData) bool {
	switch sd.Type {
	case media.SideDataA53CC:
		return true
	case media.SideDataSEI:
		return len(sd.Data) > 0 && ccx.ExtractCaptions(sd.Data) != nil
	default:
		return false
	}
}

// StripCaptions removes caption side data from f and returns how many
// entries were dropped.
func StripCaptions(f *media.Frame) int {
	return f.RemoveSideData(IsCaption)
}
