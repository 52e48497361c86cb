package manifest

// Manifest describes an installable extension package.
type Manifest struct {
	Name        string   `yaml:"name" json:"name"`
	Publisher   string   `yaml:"publisher" json:"publisher"`
	Version     string   `yaml:"version" json:"version"`
	DisplayName string   `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Categories  []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	Engines     Engines  `yaml:"engines" json:"engines"`

	// ExtensionDependencies lists publisher.name identifiers this
	// extension requires to be running.
	ExtensionDependencies []string `yaml:"extension_dependencies,omitempty" json:"extension_dependencies,omitempty"`
}

// Engines declares host compatibility constraints.
type Engines struct {
	// Workbench is a semver range the host workbench version must satisfy,
	// e.g. ">=1.80.0".
	Workbench string `yaml:"workbench" json:"workbench"`
}

// Identifier returns the publisher.name identifier for the manifest.
func (m *Manifest) Identifier() string {
	return m.Publisher + "." + m.Name
}

// FileName is the manifest file name inside an extension directory.
const FileName = "extension.yaml"
