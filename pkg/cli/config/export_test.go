package config

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(provider, projectID, apiKey string) *LLM {
	return &LLM{
		provider:  provider,
		projectID: projectID,
		location:  "us-central1",
		apiKey:    apiKey,
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(backend, path string) *Storage {
	return &Storage{
		backend: backend,
		path:    path,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewAppForTest creates an App config for testing purposes
func NewAppForTest(path string) *App {
	return &App{path: path}
}
