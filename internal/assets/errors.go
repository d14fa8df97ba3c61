package assets

import "errors"

var (
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateNotFound      = errors.New("template not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set is missing header.html or footer.html")

	// ErrInvalidAssetName rejects names with separators, dots or traversal.
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("asset path is not a directory")
	ErrAssetRead        = errors.New("asset read failed")
	ErrPathTraversal    = errors.New("asset path escapes base directory")
)
