package config

type StorageBackend string

const (
	StorageBackendS3    StorageBackend = "s3"
	StorageBackendLocal StorageBackend = "local"
)

type StorageConfig struct {
	Backend   StorageBackend
	Region    string
	Bucket    string
	BasePath  string
	LocalRoot string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:   StorageBackend(getEnv("STORAGE_BACKEND", string(StorageBackendLocal))),
		Region:    getEnv("AWS_REGION", "us-east-1"),
		Bucket:    getEnv("STORAGE_BUCKET", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", "intake"),
		LocalRoot: getEnv("STORAGE_LOCAL_ROOT", "./data"),
	}
}
