package config

// Palletfile represents the structure of the pallet.yaml build request file.
type Palletfile struct {
	Configuration string   `yaml:"configuration"`
	Scheme        string   `yaml:"scheme"`
	Platforms     []string `yaml:"platforms"`
	Toolchain     string   `yaml:"toolchain"`
	OutputPath    string   `yaml:"outputPath"`
}
