// Package assets provides the stylesheet and the per-page header and footer
// templates used to render profiles.
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed styles and templates
//	    ├── FilesystemLoader  - a user directory with the same layout
//	    └── AssetResolver     - custom first, embedded on "not found"
//
// Directory layout:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}/
//	        ├── header.html
//	        └── footer.html
//
// Asset names may not contain separators or dots. FilesystemLoader resolves
// symlinks and refuses paths outside basePath.
package assets
