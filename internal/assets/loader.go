package assets

// AssetLoader loads CSS styles and header/footer template sets.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the header and footer templates of a set.
	LoadTemplateSet(name string) (*TemplateSet, error)
}
