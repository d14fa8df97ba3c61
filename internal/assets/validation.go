package assets

import (
	"fmt"
	"strings"
)

// MaxAssetNameLength bounds style and template set names.
const MaxAssetNameLength = 64

// ValidateAssetName checks that an asset name is a bare file name: no
// separators, no dots, no control characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAssetName, MaxAssetNameLength)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	for _, r := range name {
		if r < 0x20 {
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidAssetName, name)
		}
	}
	return nil
}
