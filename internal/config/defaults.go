package config

// Default values.
const (
	DefaultRegistryFile     = "scripts/examples.yaml"
	DefaultContractsDir     = "contracts"
	DefaultTestsDir         = "test"
	DefaultContractSuffix   = ".sol"
	DefaultTestSuffix       = ".test.ts"
	DefaultOutputDir        = "./docs"
	DefaultManifestFile     = ".docs-manifest.json"
	DefaultTitle            = "FHEVM Examples"
	DefaultChapter          = "general"
	DefaultScaffoldCommand  = "npm run create-example create"
	DefaultInstallCommand   = "npm install"
	DefaultTestCommand      = "npm test"
	DefaultSmokeTestCommand = "npm run smoke-test -- --only"
)

// DefaultIntro is the paragraph rendered under the index title.
const DefaultIntro = "This documentation is auto-generated from the examples registry in this repository.\n\n" +
	"Each page is a quick reference (what the example shows, key events, and the test cases covered). " +
	"For a fuller walkthrough, generate the standalone repo for an example and read its README."

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type sourcesDefaults struct{}

func (sourcesDefaults) Domain() string { return "sources" }

func (sourcesDefaults) ApplyDefaults(cfg *Config) {
	s := &cfg.Sources
	if m := NormalizeMode(string(s.Mode)); m != "" {
		s.Mode = m
	}
	setDefault(&s.RegistryFile, DefaultRegistryFile)
	setDefault(&s.ContractsDir, DefaultContractsDir)
	setDefault(&s.TestsDir, DefaultTestsDir)
	setDefault(&s.ContractSuffix, DefaultContractSuffix)
	setDefault(&s.TestSuffix, DefaultTestSuffix)
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Output.Directory, DefaultOutputDir)
	setDefault(&cfg.Output.ManifestFile, DefaultManifestFile)
}

type renderDefaults struct{}

func (renderDefaults) Domain() string { return "render" }

func (renderDefaults) ApplyDefaults(cfg *Config) {
	r := &cfg.Render
	setDefault(&r.Title, DefaultTitle)
	setDefault(&r.Intro, DefaultIntro)
	setDefault(&r.DefaultChapter, DefaultChapter)
	setDefault(&r.ScaffoldCommand, DefaultScaffoldCommand)
	setDefault(&r.InstallCommand, DefaultInstallCommand)
	setDefault(&r.TestCommand, DefaultTestCommand)
	setDefault(&r.SmokeTestCommand, DefaultSmokeTestCommand)
}

var appliers = []DefaultApplier{sourcesDefaults{}, outputDefaults{}, renderDefaults{}}

func applyDefaults(cfg *Config) {
	for _, a := range appliers {
		a.ApplyDefaults(cfg)
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
