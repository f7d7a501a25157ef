package config

const (
	defaultRootDir    = "~/.local/share/wty/data"
	defaultToolBinary = "kty"
	defaultDictName   = "kty"
	defaultBuildJobs  = 8
	defaultRepoID     = "daxida/test-dataset"
	defaultRepoURL    = "https://huggingface.co/datasets/daxida/test-dataset"
	defaultUploader   = "hf"
	defaultEnvFile    = ".env"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RootDir: defaultRootDir,
		},
		Tool: Tool{
			Binary:   defaultToolBinary,
			DictName: defaultDictName,
		},
		Build: Build{
			Jobs: defaultBuildJobs,
		},
		Publish: Publish{
			RepoID:   defaultRepoID,
			RepoURL:  defaultRepoURL,
			Uploader: defaultUploader,
			EnvFile:  defaultEnvFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
